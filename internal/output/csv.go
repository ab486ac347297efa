package output

import (
	"encoding/csv"
	"io"

	"github.com/phyten/duskify/internal/engine"
)

// WriteCSV renders changes as RFC 4180 compliant CSV (including CRLF endings).
func WriteCSV(w io.Writer, changes []engine.Change, sel FieldSelection) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write(Headers(sel.Fields)); err != nil {
		return err
	}
	for _, c := range changes {
		if err := writer.Write(RowValues(c, sel.Fields)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

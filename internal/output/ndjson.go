package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/duskify/internal/engine"
)

// WriteNDJSON streams changes as newline-delimited JSON objects.
func WriteNDJSON(w io.Writer, changes []engine.Change) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range changes {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

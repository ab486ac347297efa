package output

import (
	"testing"

	"github.com/phyten/duskify/internal/engine"
)

func TestResolveFieldsDefault(t *testing.T) {
	sel, err := ResolveFields("", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	headers := []string{"INDEX", "TAG", "PROPERTY", "FROM", "TO", "CONTRAST"}
	if len(sel.Fields) != len(headers) {
		t.Fatalf("field count mismatch: got=%d want=%d", len(sel.Fields), len(headers))
	}
	for i, f := range sel.Fields {
		if f.Header != headers[i] {
			t.Fatalf("header %d mismatch: got=%s want=%s", i, f.Header, headers[i])
		}
	}
	if sel.ShowPath {
		t.Fatal("path column should be hidden by default")
	}
}

func TestResolveFieldsDefaultWithPath(t *testing.T) {
	sel, err := ResolveFields("", true)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	headers := []string{"INDEX", "TAG", "PATH", "PROPERTY", "FROM", "TO", "CONTRAST"}
	if len(sel.Fields) != len(headers) {
		t.Fatalf("field count mismatch: got=%d want=%d", len(sel.Fields), len(headers))
	}
	if !sel.ShowPath {
		t.Fatal("ShowPath should be set")
	}
}

func TestResolveFieldsEnablesPathViaFields(t *testing.T) {
	sel, err := ResolveFields("tag,path", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	if !sel.ShowPath {
		t.Fatalf("path flag not set: %+v", sel)
	}
	if len(sel.Fields) != 2 || sel.Fields[0].Key != "tag" || sel.Fields[1].Key != "path" {
		t.Fatalf("fields mismatch: %+v", sel.Fields)
	}
}

func TestResolveFieldsAlias(t *testing.T) {
	sel, err := ResolveFields("prop,ratio", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	if sel.Fields[0].Header != "PROPERTY" || sel.Fields[1].Header != "CONTRAST" {
		t.Fatalf("alias headers mismatch: %+v", sel.Fields)
	}
}

func TestResolveFieldsUnknownField(t *testing.T) {
	if _, err := ResolveFields("unknown", false); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestResolveFieldsEmptyEntry(t *testing.T) {
	if _, err := ResolveFields("tag,,to", false); err == nil {
		t.Fatal("expected error for empty entry")
	}
}

func TestRowValuesFormatsNumbers(t *testing.T) {
	c := engine.Change{
		Index:          7,
		Tag:            "p",
		Property:       engine.PropColor,
		FromBrightness: 51,
		ToBrightness:   226.96,
		Contrast:       13.078,
	}
	sel, err := ResolveFields("index,from_brightness,to_brightness,contrast", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	row := RowValues(c, sel.Fields)
	want := []string{"7", "51.0", "227.0", "13.08"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d mismatch: got=%q want=%q", i, row[i], want[i])
		}
	}
}

func TestFormatContrastEmptyForBackground(t *testing.T) {
	if got := FormatContrast(0); got != "" {
		t.Fatalf("expected empty string for zero ratio, got %q", got)
	}
}

package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phyten/duskify/internal/engine"
)

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields   []Field
	ShowPath bool
}

type fieldMeta struct {
	header string
	isPath bool
}

var fieldRegistry = map[string]fieldMeta{
	"index":           {header: "INDEX"},
	"tag":             {header: "TAG"},
	"path":            {header: "PATH", isPath: true},
	"property":        {header: "PROPERTY"},
	"prop":            {header: "PROPERTY"},
	"from":            {header: "FROM"},
	"to":              {header: "TO"},
	"from_brightness": {header: "FROM_BRIGHT"},
	"to_brightness":   {header: "TO_BRIGHT"},
	"contrast":        {header: "CONTRAST"},
	"ratio":           {header: "CONTRAST"},
}

// ResolveFields turns a comma separated field list into a column selection.
// An empty list selects the default columns; path joins them only when
// withPath is set.
func ResolveFields(raw string, withPath bool) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	sel := FieldSelection{}
	if raw == "" {
		keys := []string{"index", "tag"}
		if withPath {
			keys = append(keys, "path")
		}
		keys = append(keys, "property", "from", "to", "contrast")
		sel.Fields = make([]Field, 0, len(keys))
		for _, key := range keys {
			meta := fieldRegistry[key]
			sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		}
		sel.ShowPath = withPath
		return sel, nil
	}

	parts := strings.Split(raw, ",")
	sel.Fields = make([]Field, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		key := strings.ToLower(name)
		meta, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", name)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		if meta.isPath {
			sel.ShowPath = true
		}
	}
	return sel, nil
}

// Headers returns the column headers for the selected fields.
func Headers(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Header)
	}
	return out
}

// RowValues formats one change into the selected columns.
func RowValues(c engine.Change, fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, formatFieldValue(c, f.Key))
	}
	return out
}

func formatFieldValue(c engine.Change, key string) string {
	switch key {
	case "index":
		return strconv.Itoa(c.Index)
	case "tag":
		return c.Tag
	case "path":
		return c.Path
	case "property", "prop":
		return c.Property
	case "from":
		return c.From
	case "to":
		return c.To
	case "from_brightness":
		return formatBrightness(c.FromBrightness)
	case "to_brightness":
		return formatBrightness(c.ToBrightness)
	case "contrast", "ratio":
		return FormatContrast(c.Contrast)
	default:
		return ""
	}
}

func formatBrightness(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatContrast renders a contrast ratio with two decimals. Background
// rewrites carry no ratio and produce an empty cell.
func FormatContrast(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

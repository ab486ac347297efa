package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phyten/duskify/internal/engine"
)

type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

// ParseSortSpec parses a comma separated sort expression such as
// "-contrast,tag". A leading '-' reverses the key, '+' is accepted and
// ignored. Aliases are normalized here so ApplySort only sees canonical
// key names.
func ParseSortSpec(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortSpec{}, nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: empty segment")
		}
		desc := false
		switch token[0] {
		case '+':
			token = token[1:]
		case '-':
			desc = true
			token = token[1:]
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: sign without name")
		}
		name := strings.ToLower(token)
		switch name {
		case "prop":
			name = "property"
		case "ratio":
			name = "contrast"
		case "brightness":
			name = "to_brightness"
		case "severity":
			// Severity is the inverse of contrast: the most severe
			// change is the one with the lowest ratio.
			desc = !desc
			name = "contrast"
		case "element":
			keys = append(keys, SortKey{Name: "tag", Desc: desc}, SortKey{Name: "path", Desc: desc})
			continue
		case "index", "tag", "path", "property", "from", "to", "from_brightness", "to_brightness", "contrast":
			// accepted as is
		default:
			return SortSpec{}, fmt.Errorf("invalid sort key: %s", token)
		}
		keys = append(keys, SortKey{Name: name, Desc: desc})
	}
	return SortSpec{Keys: keys}, nil
}

// ApplySort orders changes by the spec. Document order (index, then
// property) is both the default and the final tiebreaker, so equal keys
// never shuffle.
func ApplySort(changes []engine.Change, spec SortSpec) {
	keys := spec.Keys
	if len(keys) == 0 {
		keys = []SortKey{{Name: "index"}, {Name: "property"}}
	} else {
		keys = append(append([]SortKey{}, keys...), SortKey{Name: "index"}, SortKey{Name: "property"})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		a := &changes[i]
		b := &changes[j]
		for _, key := range keys {
			switch key.Name {
			case "index":
				if a.Index != b.Index {
					if key.Desc {
						return a.Index > b.Index
					}
					return a.Index < b.Index
				}
			case "tag":
				if a.Tag != b.Tag {
					if key.Desc {
						return a.Tag > b.Tag
					}
					return a.Tag < b.Tag
				}
			case "path":
				if a.Path != b.Path {
					if key.Desc {
						return a.Path > b.Path
					}
					return a.Path < b.Path
				}
			case "property":
				if a.Property != b.Property {
					if key.Desc {
						return a.Property > b.Property
					}
					return a.Property < b.Property
				}
			case "from":
				if a.From != b.From {
					if key.Desc {
						return a.From > b.From
					}
					return a.From < b.From
				}
			case "to":
				if a.To != b.To {
					if key.Desc {
						return a.To > b.To
					}
					return a.To < b.To
				}
			case "from_brightness":
				if a.FromBrightness != b.FromBrightness {
					if key.Desc {
						return a.FromBrightness > b.FromBrightness
					}
					return a.FromBrightness < b.FromBrightness
				}
			case "to_brightness":
				if a.ToBrightness != b.ToBrightness {
					if key.Desc {
						return a.ToBrightness > b.ToBrightness
					}
					return a.ToBrightness < b.ToBrightness
				}
			case "contrast":
				if a.Contrast != b.Contrast {
					if key.Desc {
						return a.Contrast > b.Contrast
					}
					return a.Contrast < b.Contrast
				}
			}
		}
		return false
	})
}

func applySort(changes []engine.Change, raw string) error {
	spec, err := ParseSortSpec(raw)
	if err != nil {
		return err
	}
	ApplySort(changes, spec)
	return nil
}

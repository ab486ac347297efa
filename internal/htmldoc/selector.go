package htmldoc

import (
	"strings"

	"github.com/gorilla/css/scanner"
	"golang.org/x/net/html"
)

// selector は単純セレクタ 1 個。タグ / #id / .class / * とその複合のみ。
type selector struct {
	tag       string // lower-case type selector, "" when absent
	ids       []string
	classes   []string
	universal bool
}

// compileSelector compiles the selector forms the cascade can match:
// type, #id, .class, * and compounds of those (comma groups are split by
// the sheet parser before this point). Combinators, attribute selectors
// and pseudo-classes report ok=false and the caller drops that selector,
// the same way the engine treats colors it cannot parse.
func compileSelector(raw string) (selector, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return selector{}, false
	}
	var sel selector
	pendingClass := false
	seen := false
	sc := scanner.New(trimmed)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			if pendingClass || !seen {
				return selector{}, false
			}
			return sel, true
		case scanner.TokenIdent:
			if pendingClass {
				sel.classes = append(sel.classes, tok.Value)
				pendingClass = false
				seen = true
				continue
			}
			if sel.tag != "" || sel.universal {
				return selector{}, false
			}
			sel.tag = strings.ToLower(tok.Value)
			seen = true
		case scanner.TokenHash:
			id := strings.TrimPrefix(tok.Value, "#")
			if pendingClass || id == "" {
				return selector{}, false
			}
			sel.ids = append(sel.ids, id)
			seen = true
		case scanner.TokenChar:
			switch tok.Value {
			case ".":
				if pendingClass {
					return selector{}, false
				}
				pendingClass = true
			case "*":
				if pendingClass || seen {
					return selector{}, false
				}
				sel.universal = true
				seen = true
			default:
				// combinator, comma, pseudo, attribute bracket
				return selector{}, false
			}
		default:
			// whitespace means a descendant combinator here; errors,
			// strings and functions have no place in a simple selector
			return selector{}, false
		}
	}
}

// matches reports whether n satisfies every part of the compound. Tag
// names compare case-insensitively, id and class case-sensitively.
func (sel selector) matches(n *html.Node) bool {
	if sel.tag != "" && sel.tag != nodeTag(n) {
		return false
	}
	if len(sel.ids) > 0 {
		id := attrValue(n, "id")
		for _, want := range sel.ids {
			if id != want {
				return false
			}
		}
	}
	for _, want := range sel.classes {
		if !hasClass(n, want) {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// specificity is the scalar (id, class, type) encoding: 100 per id, 10
// per class, 1 for a type selector. The universal selector adds nothing.
func (sel selector) specificity() int {
	s := len(sel.ids)*100 + len(sel.classes)*10
	if sel.tag != "" {
		s++
	}
	return s
}

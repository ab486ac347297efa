package htmldoc

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Browser-default computed values for the two color properties. An
// undeclared background computes to fully transparent, an undeclared text
// color to black; the transform relies on both.
const (
	defaultBackground = "rgba(0, 0, 0, 0)"
	defaultColor      = "rgb(0, 0, 0)"
)

// inheritedProps marks the properties that flow down the tree.
// background-color and display are resolved on the element alone.
var inheritedProps = map[string]struct{}{
	"color":      {},
	"visibility": {},
}

// styleRule は <style> 由来の宣言 1 件。セレクタと文書内の出現順を持つ。
type styleRule struct {
	sel       selector
	property  string
	value     string
	important bool
	order     int
}

// decl は style 属性内の宣言 1 件。
type decl struct {
	property  string
	value     string
	important bool
}

// reindex rebuilds the rule index from every <style> element, in document
// order. Called after parsing and after stylesheet injection.
func (d *Document) reindex() {
	d.rules = d.rules[:0]
	var scan func(*html.Node)
	scan = func(n *html.Node) {
		if n.Type == html.ElementNode && nodeTag(n) == "style" {
			d.compileSheet(textContent(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			scan(c)
		}
	}
	scan(d.root)
}

// compileSheet appends the sheet's matchable declarations to the rule
// index. A sheet douceur cannot parse is dropped whole; at-rules are
// dropped because their conditions (@media and friends) cannot be
// evaluated statically; unsupported selectors are dropped one by one.
func (d *Document) compileSheet(src string) {
	sheet, err := parser.Parse(src)
	if err != nil {
		return
	}
	for _, rule := range sheet.Rules {
		if rule.Kind != css.QualifiedRule {
			continue
		}
		for _, raw := range rule.Selectors {
			sel, ok := compileSelector(raw)
			if !ok {
				continue
			}
			for _, dc := range rule.Declarations {
				d.rules = append(d.rules, styleRule{
					sel:       sel,
					property:  strings.ToLower(strings.TrimSpace(dc.Property)),
					value:     strings.TrimSpace(dc.Value),
					important: dc.Important,
					order:     len(d.rules),
				})
			}
		}
	}
}

// inlineDecls returns the parsed style attribute of n, caching per node.
// SetInlineStyle keeps the cache in sync with the attribute.
func (d *Document) inlineDecls(n *html.Node) []decl {
	if cached, ok := d.inline[n]; ok {
		return cached
	}
	var out []decl
	if raw := attrValue(n, "style"); strings.TrimSpace(raw) != "" {
		if parsed, err := parser.ParseDeclarations(raw); err == nil {
			for _, dc := range parsed {
				out = append(out, decl{
					property:  strings.ToLower(strings.TrimSpace(dc.Property)),
					value:     strings.TrimSpace(dc.Value),
					important: dc.Important,
				})
			}
		}
	}
	d.inline[n] = out
	return out
}

// setInline rewrites one declaration of n's style attribute, preserving
// every unrelated declaration. The write is a plain declaration, like a
// DOM style write: an existing !important flag on the same property is
// dropped, !important on other properties is kept.
func (d *Document) setInline(n *html.Node, property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)

	current := d.inlineDecls(n)
	out := make([]decl, 0, len(current)+1)
	replaced := false
	for _, dc := range current {
		if dc.property == property {
			if !replaced {
				out = append(out, decl{property: property, value: value})
				replaced = true
			}
			continue
		}
		out = append(out, dc)
	}
	if !replaced {
		out = append(out, decl{property: property, value: value})
	}
	d.inline[n] = out
	setAttrValue(n, "style", serializeDecls(out))
}

func serializeDecls(decls []decl) string {
	var sb strings.Builder
	for i, dc := range decls {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(dc.property)
		sb.WriteString(": ")
		sb.WriteString(dc.value)
		if dc.important {
			sb.WriteString(" !important")
		}
	}
	return sb.String()
}

// styleValue resolves the effective value of property on n: the element's
// own cascade first, then the parent chain for inherited properties and
// for explicit "inherit", then the browser default. Because resolution
// always reads the current tree, an inline write on a parent is visible
// to every later query on its descendants.
func (d *Document) styleValue(n *html.Node, property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	_, inherited := inheritedProps[property]

	for cur := n; cur != nil; cur = parentElement(cur) {
		v, ok := d.ownValue(cur, property)
		if ok {
			if strings.EqualFold(strings.TrimSpace(v), "inherit") {
				continue
			}
			return v
		}
		if !inherited {
			break
		}
	}

	switch property {
	case "background-color":
		return defaultBackground
	case "color":
		return defaultColor
	}
	return ""
}

// ownValue runs the cascade for one property on one element. Precedence:
// inline !important, sheet !important (specificity, then source order),
// inline, sheet. Within the style attribute the last declaration of each
// importance wins.
func (d *Document) ownValue(n *html.Node, property string) (string, bool) {
	var inlineNormal, inlineImportant string
	var hasNormal, hasImportant bool
	for _, dc := range d.inlineDecls(n) {
		if dc.property != property {
			continue
		}
		if dc.important {
			inlineImportant, hasImportant = dc.value, true
		} else {
			inlineNormal, hasNormal = dc.value, true
		}
	}
	if hasImportant {
		return inlineImportant, true
	}

	bestImp, bestNorm := -1, -1
	impSpec, normSpec := -1, -1
	for i, r := range d.rules {
		if r.property != property || !r.sel.matches(n) {
			continue
		}
		// rules are indexed in source order, so on a specificity tie
		// the later rule replaces the earlier one
		s := r.sel.specificity()
		if r.important {
			if s >= impSpec {
				bestImp, impSpec = i, s
			}
		} else {
			if s >= normSpec {
				bestNorm, normSpec = i, s
			}
		}
	}
	if bestImp >= 0 {
		return d.rules[bestImp].value, true
	}
	if hasNormal {
		return inlineNormal, true
	}
	if bestNorm >= 0 {
		return d.rules[bestNorm].value, true
	}
	return "", false
}

// Package htmldoc parses an HTML page into the document the dark-mode
// transform walks and rewrites. It resolves effective styles through a
// static cascade over <style> sheets and style attributes — the subset a
// browser's computed styles would expose for background-color, color,
// display and visibility — and writes inline overrides back into the tree
// so later queries (and the final rendering) see them.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/phyten/duskify/internal/engine"
)

// BaselineCSS is the dark foundation injected ahead of the page's own
// rules. Equal-specificity author rules override it by source order, so it
// only fills in what the page leaves undeclared. The colors match the
// engine's dark canvas and fallback text.
const BaselineCSS = "html { background-color: rgb(18, 18, 18); color: rgb(227, 227, 227); }"

// Document は変換対象の HTML 文書。engine.Document を実装する。
type Document struct {
	root   *html.Node
	rules  []styleRule
	inline map[*html.Node][]decl
}

var (
	_ engine.Document = (*Document)(nil)
	_ engine.Element  = (*element)(nil)
)

// Parse reads an HTML document from r. The parser never fails on
// malformed markup; it repairs the tree the way browsers do.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := &Document{
		root:   root,
		inline: make(map[*html.Node][]decl),
	}
	d.reindex()
	return d, nil
}

// ParseString は文字列から Parse する小さなヘルパ。
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// Walk visits every element in document order (depth-first, parents before
// children). Returning false from visit stops the walk early.
func (d *Document) Walk(visit func(engine.Element) bool) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if !visit(&element{doc: d, node: n}) {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(d.root)
}

// Render serializes the document, inline rewrites included, to w.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the serialized document as a string.
func (d *Document) HTML() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, d.root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// InjectStylesheet prepends a <style> element to <head> so every rule the
// page declares itself keeps precedence over the injected ones, then
// rebuilds the rule index. Use it with BaselineCSS before running the
// transform on pages that may declare no colors at all.
func (d *Document) InjectStylesheet(cssText string) {
	style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: cssText})

	parent := d.findFirst("head")
	if parent == nil {
		parent = d.findFirst("html")
	}
	if parent == nil {
		parent = d.root
	}
	parent.InsertBefore(style, parent.FirstChild)
	d.reindex()
}

func (d *Document) findFirst(tag string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && nodeTag(n) == tag {
			found = n
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(d.root)
	return found
}

// element は木の 1 ノードへの窓口。doc 経由でカスケードを引く。
type element struct {
	doc  *Document
	node *html.Node
}

func (el *element) Tag() string {
	return nodeTag(el.node)
}

func (el *element) StyleValue(property string) string {
	return el.doc.styleValue(el.node, property)
}

func (el *element) SetInlineStyle(property, value string) {
	el.doc.setInline(el.node, property, value)
}

// Path returns a selector-like location ("html > body > p > a") with
// :nth-of-type appended wherever same-tag siblings make it ambiguous.
func (el *element) Path() string {
	var parts []string
	for n := el.node; n != nil; n = parentElement(n) {
		parts = append(parts, pathSegment(n))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func pathSegment(n *html.Node) string {
	tag := nodeTag(n)
	if n.Parent == nil {
		return tag
	}
	sameTag := 0
	position := 0
	for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode || nodeTag(sib) != tag {
			continue
		}
		sameTag++
		if sib == n {
			position = sameTag
		}
	}
	if sameTag > 1 {
		return fmt.Sprintf("%s:nth-of-type(%d)", tag, position)
	}
	return tag
}

func nodeTag(n *html.Node) string {
	return strings.ToLower(n.Data)
}

func parentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttrValue(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// textContent concatenates the text children of n. For <style> that is
// the raw sheet source.
func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

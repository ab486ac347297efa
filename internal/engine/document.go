package engine

// Element は文書ツリー上の 1 要素を表す最小インターフェース。
// エンジンは要素の出自を知らず、この窓口だけを通して読み書きする。
type Element interface {
	// Tag returns the lower-case tag name.
	Tag() string
	// StyleValue returns the effective value of a style property
	// (background-color, color, display, visibility) as the document
	// computes it, or "" when the document has no opinion.
	StyleValue(property string) string
	// SetInlineStyle writes an inline override for the property,
	// preserving unrelated inline declarations.
	SetInlineStyle(property, value string)
	// Path returns a selector-like location for diagnostics.
	Path() string
}

// Document は変換対象の文書ツリー。
type Document interface {
	// Walk visits every element in document order. Returning false
	// from visit stops the walk early.
	Walk(visit func(Element) bool)
}

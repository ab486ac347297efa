package engine

import (
	"time"

	"github.com/phyten/duskify/internal/color"
	"github.com/phyten/duskify/internal/darken"
	"github.com/phyten/duskify/internal/progress"
)

// Inline style properties the transform writes.
const (
	PropBackground = "background-color"
	PropColor      = "color"
)

// Defaults applied by New for zero-valued options.
const (
	DefaultMaxElements = 3000
	DefaultBatchSize   = 50
	DefaultBatchDelay  = 10 * time.Millisecond
)

// Options は 1 回の変換の実行オプション
type Options struct {
	// MaxElements caps how many elements one run may touch. Documents
	// beyond the cap are truncated silently and Result.Capped is set.
	MaxElements int `json:"max_elements"`
	// BatchSize is the number of elements processed between yields.
	BatchSize int `json:"batch_size"`
	// MinContrast is the ratio enforced between text and its effective
	// background.
	MinContrast float64 `json:"min_contrast"`
	// LightThreshold is the perceived brightness above which a
	// background counts as light.
	LightThreshold float64 `json:"light_threshold"`
	// DarkBackground substitutes for backgrounds that cannot be
	// determined. The zero value selects the standard dark canvas.
	DarkBackground color.RGB `json:"-"`
	// SkipTags lists tag names excluded from the walk. nil selects
	// DefaultSkipTags; an empty non-nil slice disables skipping.
	SkipTags []string `json:"skip_tags"`
	// BatchDelay selects the fixed-delay scheduler when positive.
	BatchDelay time.Duration `json:"-"`
	// Progress enables progress reporting on stderr.
	Progress bool `json:"-"`

	// Scheduler overrides the yield strategy chosen from BatchDelay.
	Scheduler Scheduler `json:"-"`
	// ProgressObserver overrides the observer chosen from Progress.
	ProgressObserver progress.Observer `json:"-"`
}

// Change は 1 件の色の書き換え
type Change struct {
	Index          int     `json:"index"`
	Tag            string  `json:"tag"`
	Path           string  `json:"path,omitempty"`
	Property       string  `json:"property"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	FromBrightness float64 `json:"from_brightness"`
	ToBrightness   float64 `json:"to_brightness"`
	// Contrast is the ratio against the effective background after the
	// rewrite. Zero for background changes.
	Contrast float64 `json:"contrast,omitempty"`
}

// ElementError は 1 要素の処理失敗。要素単位の失敗は記録して続行する。
type ElementError struct {
	Index   int    `json:"index"`
	Tag     string `json:"tag"`
	Path    string `json:"path,omitempty"`
	Stage   string `json:"stage"`
	Message string `json:"error"`
}

// Result は 1 回の変換の結果
type Result struct {
	Changes []Change `json:"changes"`
	// Visited counts the elements actually processed, after skip rules
	// and the cap.
	Visited int  `json:"visited"`
	Capped  bool `json:"capped,omitempty"`
	Batches int  `json:"batches"`
	// Total is len(Changes), kept explicit for API consumers.
	Total     int   `json:"total"`
	ElapsedMS int64 `json:"elapsed_ms"`
	// AlreadyApplied reports that a previous run on the same engine
	// instance had completed and the document was left untouched.
	AlreadyApplied bool           `json:"already_applied,omitempty"`
	Errors         []ElementError `json:"errors,omitempty"`
	ErrorCount     int            `json:"error_count"`
}

// DefaultSkipTags returns the tag names excluded from transformation:
// non-visual elements and embedded media that must not be recolored.
func DefaultSkipTags() []string {
	return []string{
		"script", "style", "meta", "head", "link", "title", "noscript",
		"img", "video", "picture", "canvas", "svg", "iframe", "embed", "object",
	}
}

func defaultDarkBackground() color.RGB { return darken.DarkBackground }

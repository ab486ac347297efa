package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/phyten/duskify/internal/color"
	"github.com/phyten/duskify/internal/darken"
	"github.com/phyten/duskify/internal/progress"
)

// Engine は 1 つの文書に対する一回限りの変換を実行します。
//
// 再実行ガードはインスタンス自身が持ちます。同じエンジンで Apply を
// 二度呼んでも、二度目は要素に一切触れません。
type Engine struct {
	opts    Options
	sched   Scheduler
	applied atomic.Bool
}

// New validates opts, fills zero values with the documented defaults and
// fixes the yield strategy for the engine's lifetime.
func New(opts Options) (*Engine, error) {
	if opts.MaxElements < 0 {
		return nil, fmt.Errorf("max_elements must not be negative: %d", opts.MaxElements)
	}
	if opts.BatchSize < 0 {
		return nil, fmt.Errorf("batch_size must not be negative: %d", opts.BatchSize)
	}
	if opts.BatchDelay < 0 {
		return nil, fmt.Errorf("batch_delay must not be negative: %s", opts.BatchDelay)
	}
	if opts.MaxElements == 0 {
		opts.MaxElements = DefaultMaxElements
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MinContrast <= 0 {
		opts.MinContrast = darken.MinContrast
	}
	if opts.LightThreshold <= 0 {
		opts.LightThreshold = darken.LightThreshold
	}
	if opts.DarkBackground == (color.RGB{}) {
		opts.DarkBackground = defaultDarkBackground()
	}
	if opts.SkipTags == nil {
		opts.SkipTags = DefaultSkipTags()
	}
	sched := opts.Scheduler
	if sched == nil {
		if opts.BatchDelay > 0 {
			sched = DelayScheduler{Delay: opts.BatchDelay}
		} else {
			sched = IdleScheduler{}
		}
	}
	return &Engine{opts: opts, sched: sched}, nil
}

// Run は opts でエンジンを組み立てて doc を一度だけ変換します。
func Run(opts Options, doc Document) (*Result, error) {
	eng, err := New(opts)
	if err != nil {
		return nil, err
	}
	return eng.Apply(doc)
}

// Apply は doc を暗色化し、書き換えの一覧を返します。
//
// 要素単位の失敗(パニックを含む)は Result.Errors に記録して続行し、
// 実行全体の失敗のみ error を返します。その場合も書き換え済みの要素は
// そのまま残ります。二度目の呼び出しは AlreadyApplied を立てた空の
// Result を返します。
func (e *Engine) Apply(doc Document) (res *Result, err error) {
	start := time.Now()
	if doc == nil {
		return nil, fmt.Errorf("engine: document is nil")
	}
	if !e.applied.CompareAndSwap(false, true) {
		return &Result{AlreadyApplied: true, ElapsedMS: msSince(start)}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("engine: run aborted: %v", r)
		}
	}()

	elements, capped := e.collect(doc)

	obs := e.observer()
	est := progress.NewEstimator(len(elements), progress.Config{})
	est.Stage(progress.StagePaint)

	result := &Result{Visited: len(elements), Capped: capped}
	batch := e.opts.BatchSize
	for from := 0; from < len(elements); from += batch {
		to := from + batch
		if to > len(elements) {
			to = len(elements)
		}
		for i := from; i < to; i++ {
			e.processElement(i, elements[i], result)
			if snap, notify := est.Advance(1); notify {
				obs.Publish(snap)
			}
		}
		result.Batches++
		if to < len(elements) {
			e.sched.Yield()
		}
	}
	obs.Done(est.Complete())

	sort.SliceStable(result.Errors, func(i, j int) bool {
		if result.Errors[i].Index != result.Errors[j].Index {
			return result.Errors[i].Index < result.Errors[j].Index
		}
		return result.Errors[i].Stage < result.Errors[j].Stage
	})

	result.Total = len(result.Changes)
	result.ErrorCount = len(result.Errors)
	result.ElapsedMS = msSince(start)
	return result, nil
}

// collect walks the document once and returns the elements to process,
// in document order, honoring the skip set, visibility and the cap.
func (e *Engine) collect(doc Document) ([]Element, bool) {
	skip := make(map[string]struct{}, len(e.opts.SkipTags))
	for _, tag := range e.opts.SkipTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			skip[tag] = struct{}{}
		}
	}
	var out []Element
	capped := false
	doc.Walk(func(el Element) bool {
		if _, drop := skip[el.Tag()]; drop {
			return true
		}
		if hidden(el) {
			return true
		}
		if len(out) >= e.opts.MaxElements {
			capped = true
			return false
		}
		out = append(out, el)
		return true
	})
	return out, capped
}

func hidden(el Element) bool {
	if strings.EqualFold(strings.TrimSpace(el.StyleValue("display")), "none") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(el.StyleValue("visibility"))) {
	case "hidden", "collapse":
		return true
	}
	return false
}

// processElement runs both rewrite steps for one element. A panic in
// either step is recorded as an ElementError and the run continues.
func (e *Engine) processElement(idx int, el Element, result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, ElementError{
				Index:   idx,
				Tag:     el.Tag(),
				Path:    el.Path(),
				Stage:   "element",
				Message: fmt.Sprint(r),
			})
		}
	}()

	effBG := e.rewriteBackground(idx, el, result)
	e.rewriteText(idx, el, effBG, result)
}

// rewriteBackground replaces a light, opaque background and returns the
// effective background the text step must contrast against: the value
// just written, else the parsed computed value, else the dark default.
// Transparent values parse as black, so they must short-circuit first.
func (e *Engine) rewriteBackground(idx int, el Element, result *Result) color.RGB {
	raw := el.StyleValue(PropBackground)
	if color.IsTransparent(raw) {
		return e.opts.DarkBackground
	}
	bg, ok := color.Parse(raw)
	if !ok {
		return e.opts.DarkBackground
	}
	if bg.Brightness() <= e.opts.LightThreshold {
		return bg
	}
	mapped := darken.MapBackground(bg)
	el.SetInlineStyle(PropBackground, mapped.String())
	result.Changes = append(result.Changes, Change{
		Index:          idx,
		Tag:            el.Tag(),
		Path:           el.Path(),
		Property:       PropBackground,
		From:           bg.String(),
		To:             mapped.String(),
		FromBrightness: bg.Brightness(),
		ToBrightness:   mapped.Brightness(),
	})
	return mapped
}

// rewriteText maps the text color when the element sits on a dark
// effective background and is either dark itself or short on contrast.
func (e *Engine) rewriteText(idx int, el Element, effBG color.RGB, result *Result) {
	if effBG.Brightness() >= 100 {
		return
	}
	raw := el.StyleValue(PropColor)
	fg, ok := color.Parse(raw)

	brightness := 0.0
	contrastOK := false
	if ok {
		brightness = fg.Brightness()
		contrastOK = color.ContrastRatio(fg, effBG) >= e.opts.MinContrast
	}
	if brightness >= 150 && contrastOK {
		return
	}

	var mapped color.RGB
	if ok {
		mapped = darken.MapText(fg, effBG, e.opts.MinContrast)
	} else {
		// no usable color: seed the chain with the dark default so the
		// fallback path below decides the outcome
		mapped = darken.DarkBackground
	}
	mapped = darken.EnsureContrast(mapped, effBG, e.opts.MinContrast)
	if mapped.Brightness() < darken.TextFloor {
		mapped = darken.FallbackText
	}

	from := raw
	if ok {
		from = fg.String()
	}
	el.SetInlineStyle(PropColor, mapped.String())
	result.Changes = append(result.Changes, Change{
		Index:          idx,
		Tag:            el.Tag(),
		Path:           el.Path(),
		Property:       PropColor,
		From:           from,
		To:             mapped.String(),
		FromBrightness: brightness,
		ToBrightness:   mapped.Brightness(),
		Contrast:       color.ContrastRatio(mapped, effBG),
	})
}

func (e *Engine) observer() progress.Observer {
	if e.opts.ProgressObserver != nil {
		return e.opts.ProgressObserver
	}
	if e.opts.Progress {
		return progress.NewAutoObserver(nil)
	}
	return progress.NoopObserver{}
}

func msSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}

// Package opts centralizes the option plumbing shared by the CLI flags,
// the environment/config layers and the web API query parameters, so
// every input surface validates and normalizes the same way.
package opts

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phyten/duskify/internal/darken"
	"github.com/phyten/duskify/internal/engine"
)

// Upper bounds shared by every input surface. The engine itself accepts
// anything positive; these exist so one typo in a query string cannot
// queue an absurd amount of work.
const (
	MaxElementsLimit = 100000
	MaxBatchSize     = 1000
	MaxBatchDelayMS  = 10000
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}}
)

// Defaults returns the shared baseline options for both CLI and Web inputs.
func Defaults() engine.Options {
	return engine.Options{
		MaxElements:    engine.DefaultMaxElements,
		BatchSize:      engine.DefaultBatchSize,
		MinContrast:    darken.MinContrast,
		LightThreshold: darken.LightThreshold,
		SkipTags:       engine.DefaultSkipTags(),
		BatchDelay:     0,
		Progress:       false,
	}
}

// ApplyWebQueryToOptions copies recognised values from the query string into
// the provided options. Validation happens separately via NormalizeAndValidate.
func ApplyWebQueryToOptions(def engine.Options, q url.Values) (engine.Options, error) {
	out := def

	if raw, ok := lastLiteralValue(q["max_elements"]); ok {
		n, err := parseInt(raw, "max_elements")
		if err != nil {
			return out, err
		}
		out.MaxElements = n
	}
	if raw, ok := lastLiteralValue(q["batch_size"]); ok {
		n, err := parseInt(raw, "batch_size")
		if err != nil {
			return out, err
		}
		out.BatchSize = n
	}
	if raw, ok := lastLiteralValue(q["contrast"]); ok {
		f, err := ParseFloatInRange(raw, "contrast", 1, 21)
		if err != nil {
			return out, err
		}
		out.MinContrast = f
	}
	if raw, ok := lastLiteralValue(q["light_threshold"]); ok {
		f, err := ParseFloatInRange(raw, "light_threshold", 0, 255)
		if err != nil {
			return out, err
		}
		out.LightThreshold = f
	}
	if raw, ok := lastLiteralValue(q["batch_delay_ms"]); ok {
		n, err := ParseIntInRange(raw, "batch_delay_ms", 0, MaxBatchDelayMS)
		if err != nil {
			return out, err
		}
		out.BatchDelay = time.Duration(n) * time.Millisecond
	}
	if raw := q["skip_tags"]; len(raw) > 0 {
		out.SkipTags = SplitMulti(raw)
	}
	if raw, ok := lastLiteralValue(q["progress"]); ok {
		v, err := ParseBool(raw, "progress")
		if err != nil {
			return out, err
		}
		out.Progress = v
	}

	return out, nil
}

// NormalizeAndValidate ensures the options are canonical and within the
// allowed ranges. Zero values are replaced by the documented defaults.
func NormalizeAndValidate(o *engine.Options) error {
	if o.MaxElements == 0 {
		o.MaxElements = engine.DefaultMaxElements
	}
	if o.MaxElements < 1 || o.MaxElements > MaxElementsLimit {
		return fmt.Errorf("max_elements must be between 1 and %d", MaxElementsLimit)
	}

	if o.BatchSize == 0 {
		o.BatchSize = engine.DefaultBatchSize
	}
	if o.BatchSize < 1 || o.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be between 1 and %d", MaxBatchSize)
	}

	if o.MinContrast == 0 {
		o.MinContrast = darken.MinContrast
	}
	if o.MinContrast < 1 || o.MinContrast > 21 {
		return fmt.Errorf("contrast must be between 1 and 21")
	}

	if o.LightThreshold == 0 {
		o.LightThreshold = darken.LightThreshold
	}
	if o.LightThreshold < 0 || o.LightThreshold > 255 {
		return fmt.Errorf("light_threshold must be between 0 and 255")
	}

	if o.BatchDelay < 0 {
		return fmt.Errorf("batch_delay_ms must be >= 0")
	}
	if o.BatchDelay > MaxBatchDelayMS*time.Millisecond {
		return fmt.Errorf("batch_delay_ms must be <= %d", MaxBatchDelayMS)
	}

	if o.SkipTags == nil {
		o.SkipTags = engine.DefaultSkipTags()
	} else {
		o.SkipTags = canonicalTags(o.SkipTags)
	}

	return nil
}

// canonicalTags lower-cases, trims and dedupes tag names, preserving the
// first occurrence order.
func canonicalTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseBool converts a string literal into a boolean, accepting multiple synonyms.
func ParseBool(raw, key string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := trueLiterals[v]; ok {
		return true, nil
	}
	if _, ok := falseLiterals[v]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses a string into an int and ensures it falls within [min, max].
// If max < min, the upper bound is ignored.
func ParseIntInRange(raw, key string, min, max int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	if n < min {
		if max >= min {
			return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	if max >= min && n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// ParseFloatInRange parses a string into a float64 within [min, max].
func ParseFloatInRange(raw, key string, min, max float64) (float64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid numeric value for %s: %q", key, raw)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value for %s: %q", key, raw)
	}
	if f < min || f > max {
		return 0, fmt.Errorf("%s must be between %g and %g", key, min, max)
	}
	return f, nil
}

// NormalizeOutput validates and lower-cases the report format value.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "table":
		return "table", nil
	case "tsv", "json", "csv", "markdown", "ndjson":
		return v, nil
	case "md":
		return "markdown", nil
	case "jsonl":
		return "ndjson", nil
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// SplitMulti turns repeated query parameters (and comma-separated values) into a flat slice.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, piece := range strings.Split(raw, ",") {
			part := strings.TrimSpace(piece)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw, key string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

func lastLiteralValue(vals []string) (string, bool) {
	flat := SplitMulti(vals)
	if len(flat) == 0 {
		return "", false
	}
	return flat[len(flat)-1], true
}

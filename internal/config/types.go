package config

import (
	"time"

	"github.com/phyten/duskify/internal/engine"
)

type EngineConfig struct {
	MaxElements    *int      `yaml:"max_elements" toml:"max_elements" json:"max_elements"`
	BatchSize      *int      `yaml:"batch_size" toml:"batch_size" json:"batch_size"`
	Contrast       *float64  `yaml:"contrast" toml:"contrast" json:"contrast"`
	LightThreshold *float64  `yaml:"light_threshold" toml:"light_threshold" json:"light_threshold"`
	BatchDelayMS   *int      `yaml:"batch_delay_ms" toml:"batch_delay_ms" json:"batch_delay_ms"`
	SkipTags       *[]string `yaml:"skip_tags" toml:"skip_tags" json:"skip_tags"`
	Baseline       *bool     `yaml:"baseline" toml:"baseline" json:"baseline"`
	Output         *string   `yaml:"output" toml:"output" json:"output"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
}

type UIConfig struct {
	Fields *string `yaml:"fields" toml:"fields" json:"fields"`
	Sort   *string `yaml:"sort" toml:"sort" json:"sort"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
}

type EngineSettings struct {
	MaxElements    int
	BatchSize      int
	Contrast       float64
	LightThreshold float64
	BatchDelayMS   int
	SkipTags       []string
	Baseline       bool
	Output         string
	Color          string
}

type UISettings struct {
	Fields string
	Sort   string
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		MaxElements:    opts.MaxElements,
		BatchSize:      opts.BatchSize,
		Contrast:       opts.MinContrast,
		LightThreshold: opts.LightThreshold,
		BatchDelayMS:   int(opts.BatchDelay / time.Millisecond),
		SkipTags:       cloneStrings(opts.SkipTags),
		Baseline:       true,
		Output:         "table",
		Color:          "auto",
	}
}

func (s EngineSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.MaxElements = s.MaxElements
	opts.BatchSize = s.BatchSize
	opts.MinContrast = s.Contrast
	opts.LightThreshold = s.LightThreshold
	// SkipTags distinguishes nil (use the built-in list) from an empty
	// slice (skip nothing), so the copy has to preserve emptiness.
	if s.SkipTags != nil {
		tags := make([]string, len(s.SkipTags))
		copy(tags, s.SkipTags)
		opts.SkipTags = tags
	}
	opts.BatchDelay = time.Duration(s.BatchDelayMS) * time.Millisecond
}

func DefaultUISettings() UISettings {
	return UISettings{
		Fields: "",
		Sort:   "",
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

package config

import (
	"errors"
	"math"
	"strings"

	engineopts "github.com/phyten/duskify/internal/engine/opts"
)

func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	setString := func(target **string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		value := raw
		*target = &value
	}
	setList := func(target **[]string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		list := engineopts.SplitMulti([]string{raw})
		if len(list) == 0 {
			empty := make([]string, 0)
			*target = &empty
			return
		}
		copyVals := make([]string, len(list))
		copy(copyVals, list)
		*target = &copyVals
	}
	setBool := func(target **bool, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}
	setInt := func(target **int, key string, min, max int) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}
	setFloat := func(target **float64, key string, min, max float64) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseFloatInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}

	// Allow large counts here and rely on NormalizeAndValidate to enforce
	// the canonical upper bound so every input path shares the same error
	// message.
	setInt(&cfg.Engine.MaxElements, "DUSKIFY_MAX_ELEMENTS", 0, math.MaxInt)
	setInt(&cfg.Engine.BatchSize, "DUSKIFY_BATCH_SIZE", 0, math.MaxInt)
	setFloat(&cfg.Engine.Contrast, "DUSKIFY_CONTRAST", 1, 21)
	setFloat(&cfg.Engine.LightThreshold, "DUSKIFY_LIGHT_THRESHOLD", 0, 255)
	setInt(&cfg.Engine.BatchDelayMS, "DUSKIFY_BATCH_DELAY_MS", 0, math.MaxInt)
	setList(&cfg.Engine.SkipTags, "DUSKIFY_SKIP_TAGS")
	setBool(&cfg.Engine.Baseline, "DUSKIFY_BASELINE")
	if raw := strings.TrimSpace(getenv("DUSKIFY_NO_BASELINE")); raw != "" {
		v, err := engineopts.ParseBool(raw, "DUSKIFY_NO_BASELINE")
		if err != nil {
			errs = append(errs, err)
		} else {
			value := !v
			cfg.Engine.Baseline = &value
		}
	}
	setString(&cfg.Engine.Output, "DUSKIFY_OUTPUT")
	setString(&cfg.Engine.Color, "DUSKIFY_COLOR")

	setString(&cfg.UI.Fields, "DUSKIFY_FIELDS")
	setString(&cfg.UI.Sort, "DUSKIFY_SORT")

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}

package config

import "strings"

func MergeEngine(base EngineSettings, layers ...EngineConfig) EngineSettings {
	out := base
	for _, layer := range layers {
		out.MaxElements = ResolveInt(out.MaxElements, layer.MaxElements)
		out.BatchSize = ResolveInt(out.BatchSize, layer.BatchSize)
		out.Contrast = ResolveFloat(out.Contrast, layer.Contrast)
		out.LightThreshold = ResolveFloat(out.LightThreshold, layer.LightThreshold)
		out.BatchDelayMS = ResolveInt(out.BatchDelayMS, layer.BatchDelayMS)
		out.SkipTags = ResolveStrings(out.SkipTags, layer.SkipTags)
		out.Baseline = ResolveBool(out.Baseline, layer.Baseline)
		out.Output = ResolveAndTrim(out.Output, layer.Output)
		out.Color = ResolveAndTrim(out.Color, layer.Color)
	}
	if strings.TrimSpace(out.Output) == "" {
		out.Output = "table"
	}
	if strings.TrimSpace(out.Color) == "" {
		out.Color = "auto"
	}
	return out
}

func MergeUI(base UISettings, layers ...UIConfig) UISettings {
	out := base
	for _, layer := range layers {
		out.Fields = ResolveAndTrim(out.Fields, layer.Fields)
		out.Sort = ResolveAndTrim(out.Sort, layer.Sort)
	}
	return out
}

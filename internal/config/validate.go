package config

import (
	"fmt"
	"strings"
)

func CanonicalizeColor(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		return "auto", nil
	}
	switch mode {
	case "auto", "always", "never":
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color mode: %s", raw)
	}
}

func NormalizeUI(values UISettings) UISettings {
	values.Fields = strings.TrimSpace(values.Fields)
	values.Sort = strings.TrimSpace(values.Sort)
	return values
}

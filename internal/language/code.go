package language

import (
	"fmt"
	"strings"
)

// Code is a language code the pipeline can translate into
type Code string

const (
	Japanese Code = "ja"
	Chinese  Code = "zh"
	English  Code = "en"

	// Unknown is returned by the rule-based classifier when no CJK signal is present
	Unknown Code = "unknown"
	// Unsupported is returned by AI detection for languages outside ja/zh
	Unsupported Code = "unsupported"
)

// Supported lists the translation targets in their canonical order
var Supported = []Code{Japanese, Chinese, English}

// Parse converts a user-supplied string into a Code
func Parse(s string) (Code, error) {
	switch c := Code(strings.ToLower(strings.TrimSpace(s))); c {
	case Japanese, Chinese, English:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported language code %q", s)
	}
}

// ParseList parses a comma-separated list such as "zh,en"
func ParseList(s string) ([]Code, error) {
	var codes []Code
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := Parse(part)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, nil
}

// IsTarget reports whether c is a valid translation target
func (c Code) IsTarget() bool {
	return c == Japanese || c == Chinese || c == English
}

// Name returns the English name used in prompts
func (c Code) Name() string {
	switch c {
	case Japanese:
		return "Japanese"
	case Chinese:
		return "Simplified Chinese"
	case English:
		return "English"
	default:
		return string(c)
	}
}

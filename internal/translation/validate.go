package translation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"codeberg.org/snonux/transbridge/internal/language"
)

// ValidateOutput rejects model output that is not a translation of input
// into target.
func ValidateOutput(input, output string, target language.Code) error {
	out := strings.TrimSpace(output)
	if out == "" {
		return validationError("empty translation")
	}
	if out == strings.TrimSpace(input) {
		return validationError("output is identical to the input")
	}

	switch target {
	case language.Japanese:
		if !language.HasCJK(out) {
			return validationError("output contains no Japanese characters")
		}
	case language.Chinese:
		if !language.HasHan(out) && !language.HasChinesePunct(out) {
			return validationError("output contains no Chinese characters")
		}
	}

	return nil
}

func validationError(reason string) *Error {
	return &Error{Kind: KindValidation, Op: "validate", Err: errors.New(reason)}
}

// fillerPrefixes are chatty lead-ins models put before a translation.
// Longer phrases come first so they win over their own prefixes.
var fillerPrefixes = []string{
	"sure, here is the translation:",
	"sure, here's the translation:",
	"here is the translation:",
	"here's the translation:",
	"the translation is:",
	"translated text:",
	"translation:",
	"certainly!",
	"certainly,",
	"of course!",
	"of course,",
	"sure!",
	"sure,",
	"sure.",
	"okay,",
	"ok,",
}

// stripFillers removes filler prefixes, repeatedly, since they chain
func stripFillers(s string) string {
	s = strings.TrimSpace(s)
	for changed := true; changed; {
		changed = false
		for _, p := range fillerPrefixes {
			if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
				s = strings.TrimSpace(s[len(p):])
				changed = true
			}
		}
	}
	return s
}

var directionHeader = regexp.MustCompile(`(?i)^[\s\[\(]*(ja|zh)\s*(?:->|→|=>|to)\s*(ja|zh)[\s\]\):：]*`)

// AutoResult is the outcome of a combined detect+translate call
type AutoResult struct {
	Source language.Code
	Target language.Code
	Text   string
}

// parseAutoDetect interprets a reply to AutoDetectPrompt
func parseAutoDetect(raw string) (*AutoResult, error) {
	s := stripFillers(raw)
	if strings.HasPrefix(strings.ToUpper(strings.Trim(s, "`\"' ")), UnsupportedSentinel) {
		return nil, &Error{Kind: KindUnsupported, Op: "auto-detect", Err: errors.New("input language is not supported")}
	}

	loc := directionHeader.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil, validationError("reply has no direction header")
	}
	source := language.Code(strings.ToLower(s[loc[2]:loc[3]]))
	target := language.Code(strings.ToLower(s[loc[4]:loc[5]]))
	if source == target {
		return nil, validationError(fmt.Sprintf("invalid direction %s->%s", source, target))
	}

	text := stripFillers(s[loc[1]:])
	if text == "" {
		return nil, validationError("empty translation")
	}
	if !language.HasCJK(text) {
		return nil, validationError("translation contains no CJK characters")
	}

	return &AutoResult{Source: source, Target: target, Text: text}, nil
}

// normalizeDetection maps a reply to DetectPrompt onto a language code
func normalizeDetection(raw string) language.Code {
	s := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(raw)))
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "ja"): // also "japanese"
		return language.Japanese
	case strings.HasPrefix(s, "zh"), strings.HasPrefix(s, "chinese"):
		return language.Chinese
	default:
		return language.Unsupported
	}
}

package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/transbridge/internal/language"
)

// Entry is one message of a batch file
type Entry struct {
	Text string
	// Targets is empty when the targets are to be derived from the source
	Targets []language.Code
}

// ReadBatchFile reads messages from a file, one per line.
// Supports formats:
// - Message only: "你好，世界" (targets derived from the detected language)
// - With targets: "你好，世界 = ja,en"
// Blank lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return Parse(string(content)), nil
}

// Parse parses batch file content
func Parse(content string) []Entry {
	var entries []Entry

	for _, line := range splitLines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text, targets := splitTargets(line)
		if text == "" {
			continue
		}
		entries = append(entries, Entry{Text: text, Targets: targets})
	}

	return entries
}

// splitTargets separates a trailing "= zh,en" target list. The suffix only
// counts when every token is a valid language code, so messages containing
// '=' survive intact.
func splitTargets(line string) (string, []language.Code) {
	idx := strings.LastIndex(line, "=")
	if idx < 0 {
		return line, nil
	}

	suffix := strings.TrimSpace(line[idx+1:])
	if suffix == "" {
		return line, nil
	}
	codes, err := language.ParseList(suffix)
	if err != nil || len(codes) == 0 {
		return line, nil
	}

	return strings.TrimSpace(line[:idx]), codes
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

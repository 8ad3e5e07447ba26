package glossary

import (
	"sort"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/transbridge/internal/language"
)

// Match is a dictionary term found in a text
type Match struct {
	Entry      *Entry
	Lang       language.Code
	Term       string
	TargetTerm string
	TargetLang language.Code
}

// FindMatches returns the longest alias hit per entry for the given
// direction, ordered longest match first.
func (d *Dictionary) FindMatches(text string, source, target language.Code) []Match {
	if d == nil || text == "" {
		return nil
	}

	var hits []Match
	for i := range d.Entries {
		entry := &d.Entries[i]
		targetTerm, ok := entry.Targets[target]
		if !ok {
			continue
		}
		for _, alias := range entry.Aliases[source] {
			if strings.Contains(text, alias) {
				hits = append(hits, Match{
					Entry:      entry,
					Lang:       source,
					Term:       alias,
					TargetTerm: targetTerm,
					TargetLang: target,
				})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return utf8.RuneCountInString(hits[i].Term) > utf8.RuneCountInString(hits[j].Term)
	})

	seen := make(map[string]bool, len(hits))
	matches := hits[:0]
	for _, m := range hits {
		if seen[m.Entry.ID] {
			continue
		}
		seen[m.Entry.ID] = true
		matches = append(matches, m)
	}

	return matches
}

const hintHeader = "Use the following fixed translations for these terms (glossary):"

// GeneratePromptHint renders matches as glossary lines for a translation
// prompt. No matches yield an empty hint.
func GeneratePromptHint(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(hintHeader)
	for _, m := range matches {
		aliases := m.Entry.Aliases[m.Lang]
		if len(aliases) == 0 {
			aliases = []string{m.Term}
		}
		b.WriteString("\n- ")
		b.WriteString(strings.Join(aliases, "/"))
		b.WriteString(" → ")
		b.WriteString(m.TargetTerm)
	}
	return b.String()
}

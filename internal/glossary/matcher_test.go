package glossary

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/transbridge/internal/language"
)

func TestFindMatches_LongestAliasWins(t *testing.T) {
	dict := loadFixture(t)

	matches := dict.FindMatches("卡拉彼丘很强", language.Chinese, language.Japanese)

	require.Len(t, matches, 1)
	assert.Equal(t, "game", matches[0].Entry.ID)
	assert.Equal(t, "卡拉彼丘", matches[0].Term)
	assert.Equal(t, "ストリノヴァ", matches[0].TargetTerm)
	assert.Equal(t, language.Japanese, matches[0].TargetLang)
}

func TestFindMatches_OnePerEntry(t *testing.T) {
	dict := loadFixture(t)

	matches := dict.FindMatches("緋莎和心夏很强", language.Chinese, language.Japanese)

	require.Len(t, matches, 2)
	ids := []string{matches[0].Entry.ID, matches[1].Entry.ID}
	assert.ElementsMatch(t, []string{"fuchsia", "xinxia"}, ids)
}

func TestFindMatches_SortedLongestFirst(t *testing.T) {
	dict := loadFixture(t)

	matches := dict.FindMatches("心夏和卡拉彼丘", language.Chinese, language.English)

	require.Len(t, matches, 2)
	assert.Equal(t, "卡拉彼丘", matches[0].Term)
	assert.Equal(t, "心夏", matches[1].Term)
}

func TestFindMatches_RequiresTargetTerm(t *testing.T) {
	dict := loadFixture(t)

	// fuchsia has no zh target
	matches := dict.FindMatches("フューシャ", language.Japanese, language.Chinese)
	assert.Empty(t, matches)
}

func TestFindMatches_NoHits(t *testing.T) {
	dict := loadFixture(t)
	assert.Empty(t, dict.FindMatches("你好", language.Chinese, language.Japanese))

	var nilDict *Dictionary
	assert.Nil(t, nilDict.FindMatches("卡拉", language.Chinese, language.Japanese))
}

func TestFindMatches_Concurrent(t *testing.T) {
	dict := loadFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches := dict.FindMatches("卡拉彼丘很强", language.Chinese, language.English)
			assert.Len(t, matches, 1)
		}()
	}
	wg.Wait()
}

func TestGeneratePromptHint(t *testing.T) {
	dict := loadFixture(t)

	assert.Equal(t, "", GeneratePromptHint(nil))

	hint := GeneratePromptHint(dict.FindMatches("卡拉彼丘很强", language.Chinese, language.Japanese))
	lines := strings.Split(hint, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, hintHeader, lines[0])
	assert.Equal(t, "- 卡拉彼丘/卡拉 → ストリノヴァ", lines[1])
}

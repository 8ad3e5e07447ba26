package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/transbridge/internal/language"
	"codeberg.org/snonux/transbridge/internal/translation"
)

func TestEvaluate(t *testing.T) {
	ok := Success{Source: language.Japanese, Target: language.Chinese, Text: "你好"}
	invalid := Failure{Source: language.Japanese, Target: language.English, Kind: translation.KindInvalidInput, Message: "bad"}
	network := Failure{Source: language.Japanese, Target: language.English, Kind: translation.KindNetwork, Message: "down"}

	t.Run("any success is usable", func(t *testing.T) {
		successes, err := Evaluate([]Outcome{network, ok})
		require.NoError(t, err)
		assert.Equal(t, []Success{ok}, successes)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := Evaluate(nil)
		assert.ErrorIs(t, err, ErrNothingToDo)
	})

	t.Run("invalid input first is silent", func(t *testing.T) {
		_, err := Evaluate([]Outcome{invalid, network})
		assert.ErrorIs(t, err, ErrNothingToDo)
	})

	t.Run("other failure first is an error", func(t *testing.T) {
		_, err := Evaluate([]Outcome{network, invalid})
		require.Error(t, err)

		var batchErr *BatchError
		require.True(t, errors.As(err, &batchErr))
		assert.Equal(t, network, batchErr.Failure)
		assert.Equal(t, "translation into en failed (network): down", err.Error())
	})
}

func TestParseTargets(t *testing.T) {
	targets := ParseTargets([]language.Code{language.Chinese, language.English})
	assert.Equal(t, []Target{{Lang: language.Chinese}, {Lang: language.English}}, targets)
}

func TestRecords(t *testing.T) {
	outcomes := []Outcome{
		Success{Source: language.Chinese, Target: language.Japanese, Text: "こんにちは"},
		Failure{Source: language.Chinese, Target: language.English, Kind: translation.KindRateLimit, Message: "slow down"},
	}

	assert.Equal(t, []Record{
		{Source: "zh", Target: "ja", OK: true, Text: "こんにちは"},
		{Source: "zh", Target: "en", Kind: "rate-limit", Error: "slow down"},
	}, Records(outcomes))
}

func TestNewReport(t *testing.T) {
	ok := Success{Source: language.Chinese, Target: language.Japanese, Text: "こんにちは"}
	unknown := Failure{Source: language.Unknown, Target: language.Chinese, Kind: translation.KindInvalidInput, Message: "Language could not be detected"}
	auth := Failure{Source: language.Chinese, Target: language.Japanese, Kind: translation.KindAuth, Message: "bad key"}

	report, err := NewReport([]Outcome{ok})
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Empty(t, report.Error)

	report, err = NewReport([]Outcome{unknown})
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Len(t, report.Outcomes, 1)

	report, err = NewReport([]Outcome{auth})
	require.Error(t, err)
	assert.Equal(t, err.Error(), report.Error)
	assert.False(t, report.Skipped)
}

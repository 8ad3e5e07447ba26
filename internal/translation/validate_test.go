package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/transbridge/internal/language"
)

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		target  language.Code
		wantErr bool
	}{
		{"japanese ok", "你好", "こんにちは", language.Japanese, false},
		{"japanese kanji only ok", "你好", "今日", language.Japanese, false},
		{"chinese ok", "こんにちは", "你好", language.Chinese, false},
		{"chinese punct only ok", "はい", "。", language.Chinese, false},
		{"english ok", "你好", "Hello", language.English, false},
		{"empty", "你好", "  ", language.Japanese, true},
		{"echo", "你好", " 你好 ", language.Japanese, true},
		{"japanese without cjk", "你好", "Hello", language.Japanese, true},
		{"chinese without han", "こんにちは", "hello", language.Chinese, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutput(tt.input, tt.output, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindValidation {
				t.Errorf("Expected validation error, got %s", KindOf(err))
			}
		})
	}
}

func TestStripFillers(t *testing.T) {
	tests := map[string]string{
		"你好":                               "你好",
		"Sure! 你好":                         "你好",
		"Sure, here is the translation: 你好": "你好",
		"Certainly! Translation: 你好":       "你好",
		"OK, sure. 你好":                      "你好",
		"  translation:\n你好  ":              "你好",
	}

	for in, want := range tests {
		if got := stripFillers(in); got != want {
			t.Errorf("stripFillers(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseAutoDetect(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     *AutoResult
		wantKind Kind
	}{
		{
			name: "ja to zh",
			raw:  "ja->zh\n今天天气很好",
			want: &AutoResult{Source: language.Japanese, Target: language.Chinese, Text: "今天天气很好"},
		},
		{
			name: "zh to ja with arrow and brackets",
			raw:  "[ZH → JA]\nこんにちは",
			want: &AutoResult{Source: language.Chinese, Target: language.Japanese, Text: "こんにちは"},
		},
		{
			name: "header on same line",
			raw:  "zh to ja: こんにちは",
			want: &AutoResult{Source: language.Chinese, Target: language.Japanese, Text: "こんにちは"},
		},
		{
			name: "filler before header",
			raw:  "Sure! ja->zh\n你好",
			want: &AutoResult{Source: language.Japanese, Target: language.Chinese, Text: "你好"},
		},
		{name: "unsupported", raw: "UNSUPPORTED", wantKind: KindUnsupported},
		{name: "unsupported quoted", raw: "\"unsupported\"", wantKind: KindUnsupported},
		{name: "no header", raw: "你好", wantKind: KindValidation},
		{name: "same language", raw: "ja->ja\nこんにちは", wantKind: KindValidation},
		{name: "empty body", raw: "ja->zh\n", wantKind: KindValidation},
		{name: "latin body", raw: "ja->zh\nhello", wantKind: KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAutoDetect(tt.raw)
			if tt.want != nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

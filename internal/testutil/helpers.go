package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// TestDictionary is a small glossary shared by tests
const TestDictionary = `{
  "name": "test",
  "version": "1",
  "entries": [
    {
      "id": "game",
      "aliases": {"zh": ["卡拉彼丘", "卡拉"], "ja": ["ストリノヴァ"]},
      "targets": {"ja": "ストリノヴァ", "zh": "卡拉彼丘", "en": "Strinova"}
    },
    {
      "id": "fuchsia",
      "aliases": {"zh": ["緋莎"], "ja": ["フューシャ"]},
      "targets": {"ja": "フューシャ", "en": "Fuchsia"}
    }
  ]
}`

// CreateTestDictionary writes TestDictionary into a temp dir and returns its path
func CreateTestDictionary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "glossary.json")
	CreateTestFile(t, path, []byte(TestDictionary))
	return path
}

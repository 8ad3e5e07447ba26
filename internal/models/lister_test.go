package models

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/transbridge/internal/testutil"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestChatModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	_, err := lister.ChatModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
}

func TestChatModels(t *testing.T) {
	srv := testutil.NewMockCompletionServer(t, testutil.Reply(""))
	srv.Models = []string{"tts-1", "gpt-4o-mini", "dall-e-3", "deepseek-chat", "text-embedding-3-small", "gpt-4o", "whisper-1"}

	lister := NewLister("test-api-key", srv.BaseURL())
	got, err := lister.ChatModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"deepseek-chat", "gpt-4o", "gpt-4o-mini"}, got)
}

func TestListAvailableModels(t *testing.T) {
	srv := testutil.NewMockCompletionServer(t, testutil.Reply(""))
	srv.Models = []string{"gpt-4o", "tts-1"}

	var out bytes.Buffer
	lister := NewLister("test-api-key", srv.BaseURL()+"/chat/completions")
	require.NoError(t, lister.ListAvailableModels(context.Background(), &out))
	assert.Equal(t, "Chat/Translation Models:\n  gpt-4o\n", out.String())
}

func TestListAvailableModels_Empty(t *testing.T) {
	srv := testutil.NewMockCompletionServer(t, testutil.Reply(""))

	var out bytes.Buffer
	lister := NewLister("test-api-key", srv.BaseURL())
	require.NoError(t, lister.ListAvailableModels(context.Background(), &out))
	assert.Contains(t, out.String(), "No chat models found")
}

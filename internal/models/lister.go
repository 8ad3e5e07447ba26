package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// nonChat marks model families that cannot serve chat completions
var nonChat = []string{"tts", "audio", "dall-e", "whisper", "embedding", "moderation", "transcribe", "realtime", "image"}

// Lister handles listing available chat models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister for the endpoint. An empty endpoint
// means the OpenAI API.
func NewLister(apiKey, endpoint string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		config.BaseURL = strings.TrimSuffix(strings.TrimRight(endpoint, "/"), "/chat/completions")
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// ChatModels returns the sorted IDs of the chat capable models
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("API key not found. Set OPENAI_API_KEY or api.key in .transbridge.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)

	return chatModels, nil
}

// ListAvailableModels prints the chat models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	return nil
}

func isChatModel(id string) bool {
	id = strings.ToLower(id)
	for _, marker := range nonChat {
		if strings.Contains(id, marker) {
			return false
		}
	}
	return true
}

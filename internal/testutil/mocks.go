package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// MockResponse is one scripted reply of a MockCompletionServer
type MockResponse struct {
	StatusCode int               // 0 means 200
	Content    string            // message content of a successful reply
	Body       string            // raw body; overrides Content when set
	Headers    map[string]string // extra response headers
}

// Responder decides the reply for the n-th call (starting at 0)
type Responder func(call int, req openai.ChatCompletionRequest) MockResponse

// MockCompletionServer is an OpenAI compatible chat completion endpoint
// backed by httptest
type MockCompletionServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
	respond  Responder

	// Models is served from GET /v1/models
	Models []string
}

// NewMockCompletionServer starts a server that is closed on test cleanup
func NewMockCompletionServer(t *testing.T, respond Responder) *MockCompletionServer {
	t.Helper()

	m := &MockCompletionServer{respond: respond}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Close)
	return m
}

// BaseURL returns the endpoint to configure a translator with
func (m *MockCompletionServer) BaseURL() string {
	return m.URL + "/v1"
}

// Calls returns the number of completion requests received
func (m *MockCompletionServer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the received completion requests
func (m *MockCompletionServer) Requests() []openai.ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), m.requests...)
}

func (m *MockCompletionServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models") {
		m.serveModels(w)
		return
	}

	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	call := len(m.requests)
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	resp := m.respond(call, req)
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	body := resp.Body
	if body == "" {
		if status == http.StatusOK {
			body = completionBody(resp.Content)
		} else {
			body = fmt.Sprintf(`{"error":{"message":"mock error %d","type":"mock_error"}}`, status)
		}
	}

	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (m *MockCompletionServer) serveModels(w http.ResponseWriter) {
	list := openai.ModelsList{}
	for _, id := range m.Models {
		list.Models = append(list.Models, openai.Model{ID: id, Object: "model"})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func completionBody(content string) string {
	resp := openai.ChatCompletionResponse{
		ID:     "chatcmpl-mock",
		Object: "chat.completion",
		Model:  "mock",
		Choices: []openai.ChatCompletionChoice{
			{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// Reply always answers with the same content
func Reply(content string) Responder {
	return func(int, openai.ChatCompletionRequest) MockResponse {
		return MockResponse{Content: content}
	}
}

// Sequence answers call n with responses[n], repeating the last one
func Sequence(responses ...MockResponse) Responder {
	return func(call int, _ openai.ChatCompletionRequest) MockResponse {
		if call >= len(responses) {
			return responses[len(responses)-1]
		}
		return responses[call]
	}
}

// UserContent returns the content of the last user message of req
func UserContent(req openai.ChatCompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == openai.ChatMessageRoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}

// SystemContent returns the content of the first system message of req
func SystemContent(req openai.ChatCompletionRequest) string {
	for _, msg := range req.Messages {
		if msg.Role == openai.ChatMessageRoleSystem {
			return msg.Content
		}
	}
	return ""
}

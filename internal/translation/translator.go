package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/transbridge/internal/language"
)

// Config holds the settings of a Translator
type Config struct {
	APIKey      string
	Endpoint    string // base URL of an OpenAI compatible API
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Retry       RetryPolicy

	// BreakerThreshold is the number of consecutive network or rate-limit
	// failures that opens the circuit breaker
	BreakerThreshold uint32
	BreakerTimeout   time.Duration

	Logger     *slog.Logger
	HTTPClient *http.Client
}

// DefaultConfig returns the defaults for an OpenAI endpoint
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:           apiKey,
		Endpoint:         "https://api.openai.com/v1",
		Model:            openai.GPT4oMini,
		Temperature:      0.3,
		MaxTokens:        2000,
		Timeout:          60 * time.Second,
		Retry:            DefaultRetryPolicy(),
		BreakerThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// Translator performs translation and detection calls against a chat
// completion endpoint. It is safe for concurrent use.
type Translator struct {
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	client      *openai.Client
	breaker     *gobreaker.CircuitBreaker
	policy      RetryPolicy
	logger      *slog.Logger
	sleep       func(context.Context, time.Duration) error
}

// NewTranslator creates a new translator instance
func NewTranslator(config *Config) *Translator {
	if config == nil {
		config = DefaultConfig("")
	}
	defaults := DefaultConfig(config.APIKey)
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.BreakerThreshold == 0 {
		config.BreakerThreshold = defaults.BreakerThreshold
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = normalizeEndpoint(config.Endpoint)
	clientConfig.HTTPClient = &retryAfterRecorder{next: httpClient}

	logger := config.Logger.With(slog.String("component", "translator"))
	threshold := config.BreakerThreshold

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "completion",
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			kind := KindOf(err)
			return kind != KindNetwork && kind != KindRateLimit
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &Translator{
		apiKey:      config.APIKey,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		client:      openai.NewClientWithConfig(clientConfig),
		breaker:     breaker,
		policy:      config.Retry,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// Translate translates text from source into target. hint is appended to
// the prompt verbatim when not empty.
func (t *Translator) Translate(ctx context.Context, text string, source, target language.Code, hint string) (string, error) {
	if !target.IsTarget() {
		return "", &Error{Kind: KindInvalidInput, Op: "translate", Err: fmt.Errorf("unsupported target language %q", target)}
	}

	return t.retry(ctx, "translate", func(ctx context.Context, escalated bool) (string, error) {
		messages := []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(text, source, target, hint, escalated)},
		}

		out, err := t.complete(ctx, "translate", messages, t.maxTokens)
		if err != nil {
			return "", err
		}
		out = strings.TrimSpace(out)
		if err := ValidateOutput(text, out, target); err != nil {
			return "", err
		}
		return out, nil
	})
}

// TranslateWithAutoDetect detects whether text is Japanese or Chinese and
// translates it into the other language in a single call. Other languages
// yield an error of KindUnsupported.
func (t *Translator) TranslateWithAutoDetect(ctx context.Context, text, hint string) (*AutoResult, error) {
	var result *AutoResult
	_, err := t.retry(ctx, "auto-detect", func(ctx context.Context, _ bool) (string, error) {
		messages := []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildAutoDetectPrompt(hint)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		}

		out, err := t.complete(ctx, "auto-detect", messages, t.maxTokens)
		if err != nil {
			return "", err
		}
		res, err := parseAutoDetect(out)
		if err != nil {
			return "", err
		}
		result = res
		return res.Text, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DetectLanguage asks the model for the language of text. Anything other
// than Japanese or Chinese is reported as language.Unsupported.
func (t *Translator) DetectLanguage(ctx context.Context, text string) (language.Code, error) {
	out, err := t.retry(ctx, "detect", func(ctx context.Context, _ bool) (string, error) {
		messages := []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: DetectPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		}
		return t.complete(ctx, "detect", messages, 10)
	})
	if err != nil {
		return "", err
	}
	return normalizeDetection(out), nil
}

// complete sends one chat completion request through the circuit breaker
func (t *Translator) complete(ctx context.Context, op string, messages []openai.ChatCompletionMessage, maxTokens int) (string, error) {
	if t.apiKey == "" {
		return "", &Error{Kind: KindAuth, Op: op, Err: errors.New("API key not configured")}
	}

	meta := &responseMeta{}
	reqCtx := context.WithValue(ctx, responseMetaKey{}, meta)

	req := openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    messages,
		Temperature: t.temperature,
		MaxTokens:   maxTokens,
	}

	res, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.client.CreateChatCompletion(reqCtx, req)
		if err != nil {
			return nil, classify(ctx, op, err, meta)
		}
		return resp, nil
	})
	if err != nil {
		var terr *Error
		if errors.As(err, &terr) || ctx.Err() != nil {
			return "", err
		}
		return "", classify(ctx, op, err, meta)
	}

	resp := res.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindAPI, Op: op, Err: errors.New("response contained no choices")}
	}

	return resp.Choices[0].Message.Content, nil
}

// normalizeEndpoint accepts either a base URL or a full chat completions URL
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(endpoint, "/chat/completions")
}

type responseMetaKey struct{}

// responseMeta carries response headers go-openai does not expose on errors
type responseMeta struct {
	retryAfter time.Duration
}

// retryAfterRecorder wraps the HTTP client and stores the Retry-After header
// of each response in the request's responseMeta
type retryAfterRecorder struct {
	next openai.HTTPDoer
}

func (r *retryAfterRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.next.Do(req)
	if err != nil {
		return resp, err
	}
	if meta, ok := req.Context().Value(responseMetaKey{}).(*responseMeta); ok {
		meta.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return resp, nil
}

// parseRetryAfter understands both delay-seconds and HTTP-date values
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

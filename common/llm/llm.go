package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

var (
	ErrNoChoices     = errors.New("no choices in response")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrTimeout       = errors.New("generation timed out")
)

// Client sends a single-turn prompt to a text-generation service and returns
// the raw text it answered with. Interpreting that text is the caller's job.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int      // 0 = client default
	Temperature  *float64 // nil = client default, explicit 0 = deterministic

	// Optional JSON schema sent as response_format when the client has
	// structured output enabled.
	SchemaName string
	Schema     any
}

type Response struct {
	Content          string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	MaxTokens        int
	Timeout          time.Duration // per attempt
	MaxRetries       int           // total attempts, including the first
	RetryDelay       time.Duration // multiplied by the attempt number
	RPS              float64
	StructuredOutput bool
	Headers          map[string]string
}

// GenerateSchema reflects a strict JSON schema for T.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether a failed generation is worth another attempt.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "llm error not retryable: context cancelled or deadline exceeded")
		return false
	}

	if errors.Is(err, ErrNoChoices) || errors.Is(err, ErrEmptyResponse) {
		slog.WarnContext(ctx, "llm returned no content, will retry")
		return true
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			slog.WarnContext(ctx, "llm rate limited, will retry",
				"status_code", apiErr.StatusCode)
			return true
		case apiErr.StatusCode >= 500:
			slog.WarnContext(ctx, "llm server error, will retry",
				"status_code", apiErr.StatusCode)
			return true
		default:
			slog.ErrorContext(ctx, "llm client error, not retryable",
				"status_code", apiErr.StatusCode,
				"error_type", apiErr.Type,
				"error_code", apiErr.Code)
			return false
		}
	}

	slog.WarnContext(ctx, "llm network error, will retry", "error", err)
	return true
}

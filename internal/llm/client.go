// Package llm is the gateway to an OpenAI-compatible chat completion service.
package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"recipechef/internal/domain"
)

// chatAPI is the slice of the OpenAI client the gateway depends on.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures the generation gateway.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// RequestsPerSecond caps outbound request rate; 0 disables the cap.
	RequestsPerSecond float64
	// Temperature is forwarded to the model; the default keeps answers
	// close to the retrieved context. A negative value requests
	// deterministic generation (temperature 0).
	Temperature float32
}

// Client submits composed prompts and returns generated text.
type Client struct {
	api         chatAPI
	model       string
	temperature float32
	limiter     *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	} else if cfg.Temperature < 0 {
		// go-openai omits a zero temperature from the request body; the
		// smallest positive float is its stand-in for exactly 0.
		cfg.Temperature = math.SmallestNonzeroFloat32
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaiCfg.BaseURL = cfg.BaseURL
	}
	oaiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{
		api:         openai.NewClientWithConfig(oaiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		limiter:     limiter,
	}
}

// Generate submits the prompt and returns the trimmed completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrGenerationService, err)
		}
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationService)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"recipechef/internal/domain"
)

// DefaultDimension is the vector dimensionality every corpus shares unless
// configured otherwise.
const DefaultDimension = 768

// embedAPI is the slice of the OpenAI client the embedder depends on.
type embedAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Config configures the OpenAI-compatible embedding client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// Client embeds text through an OpenAI-compatible embeddings endpoint.
// Every vector is truncated to the configured dimension, so all chunks and
// queries of one corpus share the same dimensionality.
type Client struct {
	api       embedAPI
	model     string
	dimension int
	pacer     Pacer
}

// NewClient creates an embedding client. A nil pacer disables pacing.
func NewClient(cfg Config, pacer Pacer) *Client {
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if pacer == nil {
		pacer = Nop()
	}
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaiCfg.BaseURL = cfg.BaseURL
	}
	oaiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{
		api:       openai.NewClientWithConfig(oaiCfg),
		model:     cfg.Model,
		dimension: cfg.Dimension,
		pacer:     pacer,
	}
}

// Dimension returns the dimensionality of every produced vector.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding of a single text, truncated to the configured
// dimension.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingService, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", domain.ErrEmbeddingService)
	}
	return c.truncate(resp.Data[0].Embedding)
}

// EmbedBatch embeds every text in input order, pacing submissions through
// the configured Pacer. A failure on any item fails the whole batch; no
// partial result is returned.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		vectors = append(vectors, vec)
		if err := c.pacer.Pace(ctx, i); err != nil {
			return nil, fmt.Errorf("%w: pacing interrupted: %w", domain.ErrEmbeddingService, err)
		}
	}
	return vectors, nil
}

func (c *Client) truncate(vec []float32) ([]float32, error) {
	if len(vec) < c.dimension {
		return nil, fmt.Errorf("%w: service returned %d dimensions, need %d", domain.ErrEmbeddingService, len(vec), c.dimension)
	}
	return vec[:c.dimension], nil
}

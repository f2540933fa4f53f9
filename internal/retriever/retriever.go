// Package retriever answers query-time nearest-neighbor lookups over the
// corpus.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipechef/internal/domain"
)

// DefaultTopK is the number of chunks fetched when the caller does not
// choose one.
const DefaultTopK = 5

// Retriever embeds a query and fetches the most similar chunks for an owner.
type Retriever struct {
	embedder domain.Embedder
	store    domain.CorpusStore
}

func New(embedder domain.Embedder, store domain.CorpusStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns the k chunks most similar to query, restricted to ownerID
// and, when documentID is non-empty, to that single document. Fewer than k
// results, including none at all, is not an error. Store failures are not
// retried here; retry policy belongs to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query, ownerID, documentID string, k int) (domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: empty owner id", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	res, err := r.store.Query(ctx, ownerID, documentID, vec, k)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalService, err)
	}
	return res, nil
}

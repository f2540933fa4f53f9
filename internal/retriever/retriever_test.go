package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechef/internal/domain"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (e stubEmbedder) Embed(context.Context, string) ([]float32, error) { return e.vec, e.err }
func (e stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = e.vec
	}
	return out, e.err
}
func (e stubEmbedder) Dimension() int { return len(e.vec) }

type stubStore struct {
	res     domain.RetrievalResult
	err     error
	ownerID string
	docID   string
	k       int
}

func (s *stubStore) Put(context.Context, []domain.Chunk) error { return nil }
func (s *stubStore) Query(_ context.Context, ownerID, documentID string, _ []float32, k int) (domain.RetrievalResult, error) {
	s.ownerID, s.docID, s.k = ownerID, documentID, k
	return s.res, s.err
}
func (s *stubStore) DeleteDocument(context.Context, string) error { return nil }

func TestRetrieveValidatesInput(t *testing.T) {
	r := New(stubEmbedder{vec: []float32{1}}, &stubStore{})
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		ownerID string
		k       int
	}{
		{"empty query", "", "alice", 5},
		{"whitespace query", "  \t", "alice", 5},
		{"empty owner", "soup", "", 5},
		{"zero k", "soup", "alice", 0},
		{"negative k", "soup", "alice", -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Retrieve(ctx, tt.query, tt.ownerID, "", tt.k)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRetrievePassesScopeAndK(t *testing.T) {
	store := &stubStore{}
	r := New(stubEmbedder{vec: []float32{1, 2}}, store)

	_, err := r.Retrieve(context.Background(), "chicken soup", "alice", "doc-7", 3)
	require.NoError(t, err)
	assert.Equal(t, "alice", store.ownerID)
	assert.Equal(t, "doc-7", store.docID)
	assert.Equal(t, 3, store.k)
}

func TestRetrieveEmptyCorpusReturnsEmptyResult(t *testing.T) {
	r := New(stubEmbedder{vec: []float32{1}}, &stubStore{})
	res, err := r.Retrieve(context.Background(), "anything", "alice", "", 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRetrieveWrapsStoreFailure(t *testing.T) {
	r := New(stubEmbedder{vec: []float32{1}}, &stubStore{err: fmt.Errorf("connection refused")})
	_, err := r.Retrieve(context.Background(), "soup", "alice", "", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrievalService)
}

func TestRetrievePropagatesEmbedderFailure(t *testing.T) {
	r := New(stubEmbedder{err: fmt.Errorf("%w: quota", domain.ErrEmbeddingService)}, &stubStore{})
	_, err := r.Retrieve(context.Background(), "soup", "alice", "", 5)
	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
}

func TestRetrievePreservesStoreOrder(t *testing.T) {
	res := domain.RetrievalResult{
		{Chunk: domain.Chunk{Index: 2}, Score: 0.9},
		{Chunk: domain.Chunk{Index: 0}, Score: 0.5},
		{Chunk: domain.Chunk{Index: 1}, Score: 0.1},
	}
	r := New(stubEmbedder{vec: []float32{1}}, &stubStore{res: res})
	got, err := r.Retrieve(context.Background(), "soup", "alice", "", 3)
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

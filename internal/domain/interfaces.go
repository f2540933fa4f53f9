package domain

import "context"

// Embedder converts free text into a fixed-dimension numeric vector.
type Embedder interface {
	// Embed returns the embedding of a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds every text, preserving input order and length.
	// A failure on any one item fails the whole batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the dimensionality of every produced vector.
	Dimension() int
}

// CorpusStore persists chunk records and runs nearest-neighbor queries,
// scoped by owner and optionally by document.
type CorpusStore interface {
	Put(ctx context.Context, chunks []Chunk) error
	// Query returns up to k chunks most similar to vector, restricted to
	// ownerID and, when documentID is non-empty, to that single document.
	Query(ctx context.Context, ownerID, documentID string, vector []float32, k int) (RetrievalResult, error)
	// DeleteDocument removes a document's metadata and all of its chunks.
	DeleteDocument(ctx context.Context, documentID string) error
}

// DocumentStore persists document metadata alongside the corpus.
type DocumentStore interface {
	PutDocument(ctx context.Context, doc Document) error
	Documents(ctx context.Context, ownerID string) ([]Document, error)
}

// Generator submits a fully composed prompt and returns generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor turns raw document bytes into plain text preserving reading order.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

// ProfileStore persists per-user dietary profiles.
type ProfileStore interface {
	Profile(ctx context.Context, userID string) (DietaryProfile, error)
	SetProfile(ctx context.Context, userID string, profile DietaryProfile) error
}

// FavouriteStore persists saved answers.
type FavouriteStore interface {
	SaveFavourite(ctx context.Context, fav Favourite) (Favourite, error)
	Favourites(ctx context.Context, ownerID string) ([]Favourite, error)
	DeleteFavourite(ctx context.Context, id string) error
}

package domain

import "errors"

// Error taxonomy. Callers match with errors.Is; components wrap these with
// %w and the underlying cause.
var (
	// ErrInvalidInput marks malformed or empty caller arguments.
	// Never retried, always surfaced to the caller.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingService marks an embedding-service failure.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrRetrievalService marks a corpus-store failure during retrieval.
	ErrRetrievalService = errors.New("retrieval service failed")

	// ErrGenerationService marks a text-generation failure.
	ErrGenerationService = errors.New("generation service failed")

	// ErrExtraction marks a text-extraction failure.
	ErrExtraction = errors.New("text extraction failed")
)

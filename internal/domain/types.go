package domain

import "time"

// Document holds the metadata of one uploaded cookbook.
type Document struct {
	OwnerID    string `json:"owner_id"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	ByteSize   int64  `json:"byte_size"`
	StorageRef string `json:"storage_ref,omitempty"`
}

// Chunk is a bounded slice of a document's text, the unit of retrieval.
// Immutable once created; Index is the chunk's 0-based position within its
// source document, assigned contiguously in production order.
type Chunk struct {
	OwnerID      string
	DocumentID   string
	DocumentName string
	Index        int
	Text         string
	Vector       []float32
	CreatedAt    time.Time
}

// ScoredChunk pairs a retrieved chunk with its similarity score
// (higher = more similar).
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is an ephemeral, similarity-ranked sequence of chunks,
// highest score first, at most K entries.
type RetrievalResult []ScoredChunk

// DietaryProfile is the set of restriction tags owned by a user,
// e.g. "vegan" or "gluten-free". Order carries no meaning.
type DietaryProfile []string

// Has reports whether the profile contains the given restriction tag.
func (p DietaryProfile) Has(tag string) bool {
	for _, t := range p {
		if t == tag {
			return true
		}
	}
	return false
}

// ConversationTurn is one ephemeral question/answer exchange.
// SourceDocuments is the set of distinct document names whose chunks fed the
// answer. OfferedOptions carries recipe titles offered in an options-style
// answer so the following turn can be classified against them.
type ConversationTurn struct {
	Question        string
	Answer          string
	SourceDocuments []string
	OfferedOptions  []string
}

// Favourite is a saved answer the user wants to keep.
type Favourite struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"owner_id"`
	RecipeName string   `json:"recipe_name"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	BooksUsed  []string `json:"books_used"`
}

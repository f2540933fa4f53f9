// Package memory is a brute-force in-memory corpus store used by tests and
// single-process deployments.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"recipechef/internal/domain"
)

// Store keeps chunks, document metadata, dietary profiles and favourites in
// process memory. Similarity search is exact cosine over every stored vector.
type Store struct {
	mu         sync.RWMutex
	dimension  int
	chunks     []domain.Chunk
	documents  map[string]domain.Document
	profiles   map[string]domain.DietaryProfile
	favourites map[string]domain.Favourite
}

func New() *Store {
	return &Store{
		documents:  make(map[string]domain.Document),
		profiles:   make(map[string]domain.DietaryProfile),
		favourites: make(map[string]domain.Favourite),
	}
}

// Put appends chunks to the corpus. The first stored chunk fixes the corpus
// dimensionality; later chunks must match it.
func (s *Store) Put(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return fmt.Errorf("%w: chunk %s/%d has no vector", domain.ErrInvalidInput, c.DocumentID, c.Index)
		}
		if s.dimension == 0 {
			s.dimension = len(c.Vector)
		}
		if len(c.Vector) != s.dimension {
			return fmt.Errorf("%w: chunk %s/%d has dimension %d, corpus uses %d",
				domain.ErrInvalidInput, c.DocumentID, c.Index, len(c.Vector), s.dimension)
		}
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// Query returns the k chunks most similar to vector, restricted to ownerID
// and, when documentID is non-empty, to that document. An empty corpus is
// not an error.
func (s *Store) Query(_ context.Context, ownerID, documentID string, vector []float32, k int) (domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension != 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query dimension %d, corpus uses %d", domain.ErrInvalidInput, len(vector), s.dimension)
	}
	var matches domain.RetrievalResult
	for _, c := range s.chunks {
		if c.OwnerID != ownerID {
			continue
		}
		if documentID != "" && c.DocumentID != documentID {
			continue
		}
		matches = append(matches, domain.ScoredChunk{Chunk: c, Score: cosine(vector, c.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// DeleteDocument removes the document's metadata and cascades to its chunks.
func (s *Store) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, documentID)
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	s.chunks = kept
	return nil
}

func (s *Store) PutDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
	return nil
}

func (s *Store) Documents(_ context.Context, ownerID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, d := range s.documents {
		if d.OwnerID == ownerID {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (s *Store) Profile(_ context.Context, userID string) (domain.DietaryProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[userID], nil
}

func (s *Store) SetProfile(_ context.Context, userID string, profile domain.DietaryProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile
	return nil
}

func (s *Store) SaveFavourite(_ context.Context, fav domain.Favourite) (domain.Favourite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fav.ID == "" {
		fav.ID = uuid.NewString()
	}
	s.favourites[fav.ID] = fav
	return fav, nil
}

func (s *Store) Favourites(_ context.Context, ownerID string) ([]domain.Favourite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var favs []domain.Favourite
	for _, f := range s.favourites {
		if f.OwnerID == ownerID {
			favs = append(favs, f)
		}
	}
	sort.Slice(favs, func(i, j int) bool { return favs[i].ID < favs[j].ID })
	return favs, nil
}

func (s *Store) DeleteFavourite(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favourites, id)
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

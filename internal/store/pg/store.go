// Package pg persists the corpus in Postgres with the pgvector extension.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"recipechef/internal/domain"
)

// Store implements the corpus, document, profile and favourite stores on a
// single Postgres database.
type Store struct {
	db        *sql.DB
	dimension int
}

// New opens the database and bootstraps the schema for the given vector
// dimension. The dimension is fixed for the lifetime of the corpus.
func New(conn string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidInput)
	}
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db, dimension); err != nil {
		return nil, err
	}
	return &Store{db: db, dimension: dimension}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Put inserts chunks in production order inside one transaction, so a
// document's chunk rows never become visible half-written.
func (s *Store) Put(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if len(c.Vector) != s.dimension {
			_ = tx.Rollback()
			return fmt.Errorf("%w: chunk %s/%d has dimension %d, corpus uses %d",
				domain.ErrInvalidInput, c.DocumentID, c.Index, len(c.Vector), s.dimension)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (owner_id, document_id, document_name, chunk_index, text, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6::vector, $7)
		`, c.OwnerID, c.DocumentID, c.DocumentName, c.Index, c.Text, vectorLiteral(c.Vector), c.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Query runs a cosine nearest-neighbor search scoped to the owner and,
// optionally, one document. Similarity is 1 minus cosine distance so higher
// means more similar.
func (s *Store) Query(ctx context.Context, ownerID, documentID string, vector []float32, k int) (domain.RetrievalResult, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query dimension %d, corpus uses %d", domain.ErrInvalidInput, len(vector), s.dimension)
	}
	query := `
		SELECT owner_id, document_id, document_name, chunk_index, text,
		       1 - (embedding <=> $1::vector) AS similarity
		FROM chunks
		WHERE owner_id = $2`
	args := []any{vectorLiteral(vector), ownerID}
	if documentID != "" {
		query += ` AND document_id = $3`
		args = append(args, documentID)
	}
	query += fmt.Sprintf(` ORDER BY embedding <=> $1::vector LIMIT %d`, k)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res domain.RetrievalResult
	for rows.Next() {
		var c domain.Chunk
		var score float64
		if err := rows.Scan(&c.OwnerID, &c.DocumentID, &c.DocumentName, &c.Index, &c.Text, &score); err != nil {
			return nil, err
		}
		res = append(res, domain.ScoredChunk{Chunk: c, Score: score})
	}
	return res, rows.Err()
}

// DeleteDocument removes the document row; the chunk rows go with it via the
// foreign-key cascade.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	return err
}

func (s *Store) PutDocument(ctx context.Context, doc domain.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, owner_id, name, byte_size, storage_ref)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, byte_size = EXCLUDED.byte_size, storage_ref = EXCLUDED.storage_ref
	`, doc.ID, doc.OwnerID, doc.Name, doc.ByteSize, doc.StorageRef)
	return err
}

func (s *Store) Documents(ctx context.Context, ownerID string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, byte_size, storage_ref
		FROM documents WHERE owner_id = $1 ORDER BY name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.ByteSize, &d.StorageRef); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) Profile(ctx context.Context, userID string) (domain.DietaryProfile, error) {
	var tags []string
	err := s.db.QueryRowContext(ctx, `
		SELECT dietary_restrictions FROM user_preferences WHERE user_id = $1
	`, userID).Scan(pq.Array(&tags))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return domain.DietaryProfile(tags), nil
}

func (s *Store) SetProfile(ctx context.Context, userID string, profile domain.DietaryProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, dietary_restrictions, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET dietary_restrictions = EXCLUDED.dietary_restrictions, updated_at = now()
	`, userID, pq.Array([]string(profile)))
	return err
}

func (s *Store) SaveFavourite(ctx context.Context, fav domain.Favourite) (domain.Favourite, error) {
	if fav.ID == "" {
		fav.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favourites (id, owner_id, recipe_name, question, answer, books_used)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, fav.ID, fav.OwnerID, fav.RecipeName, fav.Question, fav.Answer, pq.Array(fav.BooksUsed))
	if err != nil {
		return domain.Favourite{}, err
	}
	return fav, nil
}

func (s *Store) Favourites(ctx context.Context, ownerID string) ([]domain.Favourite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, recipe_name, question, answer, books_used
		FROM favourites WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []domain.Favourite
	for rows.Next() {
		var f domain.Favourite
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.RecipeName, &f.Question, &f.Answer, pq.Array(&f.BooksUsed)); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

func (s *Store) DeleteFavourite(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM favourites WHERE id = $1`, id)
	return err
}

// vectorLiteral renders a vector in pgvector's text format.
func vectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, f := range v {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("%.6f", float64(f)))
	}
	sb.WriteString("]")
	return sb.String()
}

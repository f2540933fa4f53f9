// Package service orchestrates ingestion and question answering over the
// user's cookbook corpus.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipechef/internal/assembler"
	"recipechef/internal/chunker"
	"recipechef/internal/domain"
	"recipechef/internal/prompt"
	"recipechef/internal/retriever"
)

// mealPlanQuery is the broad retrieval query used to collect varied recipes
// for a weekly plan.
const mealPlanQuery = "breakfast lunch dinner recipes meals"

// Config tunes the pipeline. Zero values fall back to defaults.
type Config struct {
	ChunkTargetSize int
	TopK            int
	MealPlanTopK    int
	IngestTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.ChunkTargetSize <= 0 {
		c.ChunkTargetSize = chunker.DefaultTargetSize
	}
	if c.TopK <= 0 {
		c.TopK = retriever.DefaultTopK
	}
	if c.MealPlanTopK <= 0 {
		c.MealPlanTopK = 15
	}
	if c.IngestTimeout <= 0 {
		c.IngestTimeout = 2 * time.Minute
	}
	return c
}

// Deps are the collaborators the service is wired with. Every field is
// required except Favourites and Profiles, which may be nil when the
// deployment does not persist them.
type Deps struct {
	Embedder   domain.Embedder
	Store      domain.CorpusStore
	Documents  domain.DocumentStore
	Generator  domain.Generator
	Extractor  domain.Extractor
	Profiles   domain.ProfileStore
	Favourites domain.FavouriteStore
}

// Chef answers cooking questions against the owner's uploaded cookbooks.
type Chef struct {
	deps      Deps
	retriever *retriever.Retriever
	policy    prompt.Policy
	cfg       Config
	log       *zap.Logger
}

func New(deps Deps, policy prompt.Policy, cfg Config, log *zap.Logger) *Chef {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chef{
		deps:      deps,
		retriever: retriever.New(deps.Embedder, deps.Store),
		policy:    policy,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
}

// IngestResult reports what one upload produced.
type IngestResult struct {
	Document domain.Document
	Chunks   int
}

// IngestDocument runs the whole ingestion path under one wall-clock budget:
// extract, chunk, embed, store. Failures up to and including embedding abort
// before anything is persisted; a chunk-store failure rolls the document row
// back, so no partially embedded document ever becomes visible.
// Concurrent uploads of the same name become independent documents.
func (c *Chef) IngestDocument(ctx context.Context, ownerID, name string, data []byte) (IngestResult, error) {
	if ownerID == "" || name == "" {
		return IngestResult{}, fmt.Errorf("%w: owner id and document name are required", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.IngestTimeout)
	defer cancel()
	start := time.Now()

	text, err := c.deps.Extractor.Extract(ctx, name, data)
	if err != nil {
		return IngestResult{}, err
	}

	pieces, err := chunker.Words(text, c.cfg.ChunkTargetSize)
	if err != nil {
		return IngestResult{}, err
	}
	if len(pieces) == 0 {
		return IngestResult{}, fmt.Errorf("%w: document %q contains no text", domain.ErrInvalidInput, name)
	}

	vectors, err := c.deps.Embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return IngestResult{}, err
	}

	doc := domain.Document{
		OwnerID:  ownerID,
		ID:       uuid.NewString(),
		Name:     name,
		ByteSize: int64(len(data)),
	}
	now := time.Now().UTC()
	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			OwnerID:      ownerID,
			DocumentID:   doc.ID,
			DocumentName: name,
			Index:        i,
			Text:         piece,
			Vector:       vectors[i],
			CreatedAt:    now,
		}
	}

	// Chunk rows reference the document row, so the document goes in first.
	// If the chunks then fail to persist, the document is rolled back so no
	// chunkless document stays visible.
	if err := c.deps.Documents.PutDocument(ctx, doc); err != nil {
		return IngestResult{}, err
	}
	if err := c.deps.Store.Put(ctx, chunks); err != nil {
		_ = c.deps.Store.DeleteDocument(ctx, doc.ID)
		return IngestResult{}, err
	}

	c.log.Info("document ingested",
		zap.String("owner", ownerID),
		zap.String("document", name),
		zap.Int("chunks", len(chunks)),
		zap.Duration("took", time.Since(start)))
	return IngestResult{Document: doc, Chunks: len(chunks)}, nil
}

// AskRequest is one question against the owner's corpus. DocumentID, when
// set, narrows retrieval to that single cookbook. Prior carries the
// preceding turn so option selections can be recognized.
type AskRequest struct {
	OwnerID    string
	Question   string
	DocumentID string
	TopK       int
	Prior      *domain.ConversationTurn
}

// Ask retrieves context for the question, builds the policy-governed prompt
// and returns the generated answer with its provenance.
func (c *Chef) Ask(ctx context.Context, req AskRequest) (domain.ConversationTurn, error) {
	if strings.TrimSpace(req.Question) == "" {
		return domain.ConversationTurn{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	k := req.TopK
	if k <= 0 {
		k = c.cfg.TopK
	}

	results, err := c.retriever.Retrieve(ctx, req.Question, req.OwnerID, req.DocumentID, k)
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	assembled := assembler.Assemble(results)

	profile, err := c.profile(ctx, req.OwnerID)
	if err != nil {
		return domain.ConversationTurn{}, err
	}

	promptText, mode := c.policy.Build(prompt.Request{
		Question: req.Question,
		Context:  assembled,
		Profile:  profile,
		Prior:    req.Prior,
	})

	answer, err := c.deps.Generator.Generate(ctx, promptText)
	if err != nil {
		return domain.ConversationTurn{}, err
	}

	turn := domain.ConversationTurn{
		Question:        req.Question,
		Answer:          answer,
		SourceDocuments: assembled.SourceDocuments,
	}
	if mode == prompt.ModeOptionsOffered {
		turn.OfferedOptions = offeredOptions(answer)
	}
	c.log.Debug("question answered",
		zap.String("owner", req.OwnerID),
		zap.String("mode", string(mode)),
		zap.Int("retrieved", len(results)),
		zap.Strings("sources", turn.SourceDocuments))
	return turn, nil
}

// MealPlan generates a 7-day plan from a broad sweep over the corpus. With
// no ingested recipes it returns the fixed no-match message without calling
// the generation service.
func (c *Chef) MealPlan(ctx context.Context, ownerID string) (string, error) {
	results, err := c.retriever.Retrieve(ctx, mealPlanQuery, ownerID, "", c.cfg.MealPlanTopK)
	if err != nil {
		return "", err
	}
	assembled := assembler.Assemble(results)
	if assembled.Empty() {
		return c.policy.NoMatchMessage, nil
	}

	profile, err := c.profile(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return c.deps.Generator.Generate(ctx, c.policy.BuildMealPlan(assembled, profile))
}

// SaveFavourite stores a finished turn under a recipe name lifted from the
// answer text.
func (c *Chef) SaveFavourite(ctx context.Context, ownerID string, turn domain.ConversationTurn) (domain.Favourite, error) {
	if c.deps.Favourites == nil {
		return domain.Favourite{}, fmt.Errorf("%w: favourites are not configured", domain.ErrInvalidInput)
	}
	return c.deps.Favourites.SaveFavourite(ctx, domain.Favourite{
		OwnerID:    ownerID,
		RecipeName: ExtractRecipeName(turn.Answer),
		Question:   turn.Question,
		Answer:     turn.Answer,
		BooksUsed:  turn.SourceDocuments,
	})
}

func (c *Chef) Favourites(ctx context.Context, ownerID string) ([]domain.Favourite, error) {
	if c.deps.Favourites == nil {
		return nil, nil
	}
	return c.deps.Favourites.Favourites(ctx, ownerID)
}

func (c *Chef) DeleteFavourite(ctx context.Context, id string) error {
	if c.deps.Favourites == nil {
		return nil
	}
	return c.deps.Favourites.DeleteFavourite(ctx, id)
}

func (c *Chef) Documents(ctx context.Context, ownerID string) ([]domain.Document, error) {
	return c.deps.Documents.Documents(ctx, ownerID)
}

func (c *Chef) DeleteDocument(ctx context.Context, documentID string) error {
	return c.deps.Store.DeleteDocument(ctx, documentID)
}

func (c *Chef) Profile(ctx context.Context, userID string) (domain.DietaryProfile, error) {
	return c.profile(ctx, userID)
}

// SetProfile persists the profile as a normalized set: tags are trimmed,
// lowercased and deduplicated, so every transport stores the same form.
func (c *Chef) SetProfile(ctx context.Context, userID string, profile domain.DietaryProfile) error {
	if c.deps.Profiles == nil {
		return fmt.Errorf("%w: profiles are not configured", domain.ErrInvalidInput)
	}
	return c.deps.Profiles.SetProfile(ctx, userID, normalizeProfile(profile))
}

func normalizeProfile(profile domain.DietaryProfile) domain.DietaryProfile {
	out := make(domain.DietaryProfile, 0, len(profile))
	for _, tag := range profile {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || out.Has(tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func (c *Chef) profile(ctx context.Context, userID string) (domain.DietaryProfile, error) {
	if c.deps.Profiles == nil {
		return nil, nil
	}
	return c.deps.Profiles.Profile(ctx, userID)
}

package api

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipechef/internal/domain"
	"recipechef/internal/service"
)

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	chef *service.Chef
	log  *zap.Logger
}

// NewHandler constructs a Handler around the chef service.
func NewHandler(chef *service.Chef, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{chef: chef, log: log}
}

// ownerID identifies the caller. Single-user deployments can omit the header.
func ownerID(c *fiber.Ctx) string {
	if v := c.Get("X-User-ID"); v != "" {
		return v
	}
	return "default"
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrExtraction):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrEmbeddingService),
		errors.Is(err, domain.ErrRetrievalService),
		errors.Is(err, domain.ErrGenerationService):
		h.log.Error("upstream failure", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		h.log.Error("internal error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// Health is a liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// Upload ingests a cookbook file sent as multipart form field "file".
func (h *Handler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: file)"})
	}
	f, err := file.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.chef.IngestDocument(c.Context(), ownerID(c), file.Filename, data)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"document_id": res.Document.ID,
		"name":        res.Document.Name,
		"chunks":      res.Chunks,
	})
}

type askRequest struct {
	Question       string   `json:"question"`
	DocumentID     string   `json:"document_id"`
	TopK           int      `json:"top_k"`
	PriorQuestion  string   `json:"prior_question"`
	PriorAnswer    string   `json:"prior_answer"`
	OfferedOptions []string `json:"offered_options"`
}

// Ask answers a cooking question against the caller's cookbooks.
func (h *Handler) Ask(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var prior *domain.ConversationTurn
	if req.PriorQuestion != "" || req.PriorAnswer != "" || len(req.OfferedOptions) > 0 {
		prior = &domain.ConversationTurn{
			Question:       req.PriorQuestion,
			Answer:         req.PriorAnswer,
			OfferedOptions: req.OfferedOptions,
		}
	}

	turn, err := h.chef.Ask(c.Context(), service.AskRequest{
		OwnerID:    ownerID(c),
		Question:   req.Question,
		DocumentID: req.DocumentID,
		TopK:       req.TopK,
		Prior:      prior,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"answer":          turn.Answer,
		"sources":         turn.SourceDocuments,
		"offered_options": turn.OfferedOptions,
	})
}

// MealPlan generates a 7-day plan from the caller's cookbooks.
func (h *Handler) MealPlan(c *fiber.Ctx) error {
	plan, err := h.chef.MealPlan(c.Context(), ownerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"plan": plan})
}

// Documents lists the caller's uploaded cookbooks.
func (h *Handler) Documents(c *fiber.Ctx) error {
	docs, err := h.chef.Documents(c.Context(), ownerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// DeleteDocument removes a cookbook and all of its chunks.
func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document id is required"})
	}
	if err := h.chef.DeleteDocument(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// Preferences returns the caller's dietary profile.
func (h *Handler) Preferences(c *fiber.Ctx) error {
	profile, err := h.chef.Profile(c.Context(), ownerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	if profile == nil {
		profile = domain.DietaryProfile{}
	}
	return c.JSON(fiber.Map{"preferences": profile})
}

type preferencesRequest struct {
	Preferences domain.DietaryProfile `json:"preferences"`
}

// SetPreferences replaces the caller's dietary profile.
func (h *Handler) SetPreferences(c *fiber.Ctx) error {
	var req preferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.chef.SetProfile(c.Context(), ownerID(c), req.Preferences); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type favouriteRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// SaveFavourite stores the given answer as a favourite recipe.
func (h *Handler) SaveFavourite(c *fiber.Ctx) error {
	var req favouriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Answer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "answer is required"})
	}
	fav, err := h.chef.SaveFavourite(c.Context(), ownerID(c), domain.ConversationTurn{
		Question:        req.Question,
		Answer:          req.Answer,
		SourceDocuments: req.Sources,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fav)
}

// Favourites lists the caller's saved recipes.
func (h *Handler) Favourites(c *fiber.Ctx) error {
	favs, err := h.chef.Favourites(c.Context(), ownerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	if favs == nil {
		favs = []domain.Favourite{}
	}
	return c.JSON(fiber.Map{"favourites": favs})
}

// DeleteFavourite removes a saved recipe.
func (h *Handler) DeleteFavourite(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "favourite id is required"})
	}
	if err := h.chef.DeleteFavourite(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

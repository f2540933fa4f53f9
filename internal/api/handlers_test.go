package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipechef/internal/prompt"
	"recipechef/internal/service"
	"recipechef/internal/store/memory"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{1, float32(len(text) % 5)}, nil
}

func (e fixedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func (fixedEmbedder) Dimension() int { return 2 }

type fixedGenerator struct{ reply string }

func (g fixedGenerator) Generate(context.Context, string) (string, error) { return g.reply, nil }

type passExtractor struct{}

func (passExtractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	return string(data), nil
}

func newTestApp(t *testing.T, reply string) *fiber.App {
	t.Helper()
	store := memory.New()
	chef := service.New(service.Deps{
		Embedder:   fixedEmbedder{},
		Store:      store,
		Documents:  store,
		Generator:  fixedGenerator{reply: reply},
		Extractor:  passExtractor{},
		Profiles:   store,
		Favourites: store,
	}, prompt.Default(), service.Config{}, zap.NewNop())

	app := fiber.New()
	RegisterRoutes(app, chef, zap.NewNop())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var out map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp, out
}

func uploadFile(t *testing.T, app *fiber.App, name, content string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "ok")
	resp, _ := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadAndAsk(t *testing.T) {
	app := newTestApp(t, "Slice the onions and simmer in stock.")

	out := uploadFile(t, app, "soups.txt", "onion soup recipe slice onions simmer in stock")
	assert.Equal(t, "soups.txt", out["name"])
	assert.NotEmpty(t, out["document_id"])
	assert.EqualValues(t, 1, out["chunks"])

	resp, body := doJSON(t, app, http.MethodPost, "/ask",
		map[string]any{"question": "onion soup"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Slice the onions and simmer in stock.", body["answer"])
	assert.Equal(t, []any{"soups.txt"}, body["sources"])
}

func TestUploadRequiresFile(t *testing.T) {
	app := newTestApp(t, "ok")
	resp, _ := doJSON(t, app, http.MethodPost, "/upload", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	app := newTestApp(t, "ok")
	resp, _ := doJSON(t, app, http.MethodPost, "/ask", map[string]any{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreferencesRoundTrip(t *testing.T) {
	app := newTestApp(t, "ok")

	resp, body := doJSON(t, app, http.MethodGet, "/preferences", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["preferences"])

	resp, _ = doJSON(t, app, http.MethodPut, "/preferences",
		map[string]any{"preferences": []string{"Vegan", "vegan", "NUT-FREE"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/preferences", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"vegan", "nut-free"}, body["preferences"])
}

func TestFavouritesLifecycle(t *testing.T) {
	app := newTestApp(t, "ok")

	resp, body := doJSON(t, app, http.MethodPost, "/favourites", map[string]any{
		"question": "cookies",
		"answer":   "## Chocolate Chip Cookies\nCream the butter.",
		"sources":  []string{"baking.txt"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Chocolate Chip Cookies", body["recipe_name"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	resp, body = doJSON(t, app, http.MethodGet, "/favourites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	favs, _ := body["favourites"].([]any)
	assert.Len(t, favs, 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/favourites/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/favourites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	favs, _ = body["favourites"].([]any)
	assert.Empty(t, favs)
}

func TestDocumentsLifecycle(t *testing.T) {
	app := newTestApp(t, "ok")
	out := uploadFile(t, app, "pastry.txt", "puff pastry lamination fold butter into dough")
	id, _ := out["document_id"].(string)
	require.NotEmpty(t, id)

	resp, body := doJSON(t, app, http.MethodGet, "/documents", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	docs, _ := body["documents"].([]any)
	require.Len(t, docs, 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/documents/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/documents", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	docs, _ = body["documents"].([]any)
	assert.Empty(t, docs)
}

func TestMealPlanEmptyCorpus(t *testing.T) {
	app := newTestApp(t, "should not be called")
	resp, body := doJSON(t, app, http.MethodPost, "/mealplan", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	plan, _ := body["plan"].(string)
	assert.Contains(t, plan, "couldn't find anything")
}

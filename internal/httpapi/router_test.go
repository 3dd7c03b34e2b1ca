package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gopresentation "github.com/VantageDataChat/GoPPT"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pptgen/internal/config"
	"pptgen/internal/deck"
	"pptgen/internal/llm"
	"pptgen/internal/pkg/logger"
	"pptgen/internal/session"
	"pptgen/internal/worker/queue"
)

type routerEnv struct {
	handler  http.Handler
	sessions *session.Store
	queue    *queue.MemoryQueue
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	store, err := session.New(t.TempDir(), logger.NewDefault())
	require.NoError(t, err)

	q := queue.NewMemoryQueue(4)
	cfg := config.Config{
		MaxUploadBytes: 50 << 20,
		MaxTextChars:   60000,
		AllowedOrigins: []string{"*"},
	}

	gen := func(_ context.Context, _ llm.Provider, _, outputPath, _, _ string, numSlides int) (*deck.Result, error) {
		if err := os.WriteFile(outputPath, []byte("deck-bytes"), 0o644); err != nil {
			return nil, err
		}
		return &deck.Result{SlideCount: numSlides}, nil
	}

	return &routerEnv{
		handler: NewRouter(Deps{
			Cfg:      cfg,
			Sessions: store,
			Queue:    q,
			Generate: gen,
		}),
		sessions: store,
		queue:    q,
	}
}

// templateBytes builds a small but real presentation file.
func templateBytes(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pptx")
	p := gopresentation.New()
	require.NoError(t, p.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func generateRequest(t *testing.T, fields map[string]string, templateName string, template []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if template != nil {
		fw, err := mw.CreateFormFile("template", templateName)
		require.NoError(t, err)
		_, err = fw.Write(template)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func defaultFields() map[string]string {
	return map[string]string{
		"text_content": "Quarterly results were strong across all regions.",
		"api_key":      "test-key-1234567890",
		"ai_provider":  "gemini",
		"num_slides":   "8",
	}
}

func TestGenerateSuccess(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, generateRequest(t, defaultFields(), "deck.pptx", templateBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success     bool   `json:"success"`
		SessionID   string `json:"session_id"`
		DownloadURL string `json:"download_url"`
		SlideCount  int    `json:"slide_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.SessionID, session.Prefix))
	assert.Equal(t, "/api/download/"+resp.SessionID, resp.DownloadURL)
	assert.Equal(t, 8, resp.SlideCount)

	// The deck exists, the uploaded template is gone, conversion is queued.
	assert.True(t, env.sessions.Exists(resp.SessionID, session.DeckName))
	assert.False(t, env.sessions.Exists(resp.SessionID, "template_deck.pptx"))

	popCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	queued, err := env.queue.Pop(popCtx)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, queued)
}

func TestGenerateRequiresText(t *testing.T) {
	env := newRouterEnv(t)

	fields := defaultFields()
	fields["text_content"] = "   "
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, generateRequest(t, fields, "deck.pptx", templateBytes(t)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text content is required")
}

func TestGenerateRequiresTemplate(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, generateRequest(t, defaultFields(), "", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Template file is required")
}

func TestGenerateRejectsExtension(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, generateRequest(t, defaultFields(), "notes.txt", []byte("plain text")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ".pptx")
}

func TestGenerateRejectsCorruptTemplate(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, generateRequest(t, defaultFields(), "deck.pptx", []byte("not a zip")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid PowerPoint file")
}

func TestGenerateRejectsBadAPIKey(t *testing.T) {
	env := newRouterEnv(t)

	fields := defaultFields()
	fields["api_key"] = "short"
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, generateRequest(t, fields, "deck.pptx", templateBytes(t)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "API key")
}

func TestPDFStatus(t *testing.T) {
	env := newRouterEnv(t)
	id, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pdf_status/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ready":false}`, rec.Body.String())

	_, err = env.sessions.Put(id, session.PDFName, strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pdf_status/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ready":true}`, rec.Body.String())
}

func TestPDFStatusUnknownSession(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pdf_status/pptgen-bogus", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownload(t *testing.T) {
	env := newRouterEnv(t)
	id, err := env.sessions.Create(context.Background())
	require.NoError(t, err)
	_, err = env.sessions.Put(id, session.DeckName, strings.NewReader("deck-bytes"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/"+id, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deck-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "generated_presentation.pptx")
	assert.Contains(t, rec.Header().Get("Content-Type"), "presentationml")
}

func TestDownloadMissing(t *testing.T) {
	env := newRouterEnv(t)
	id, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServePDF(t *testing.T) {
	env := newRouterEnv(t)
	id, err := env.sessions.Create(context.Background())
	require.NoError(t, err)
	_, err = env.sessions.Put(id, session.PDFName, strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/output.pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestPreview(t *testing.T) {
	env := newRouterEnv(t)
	id, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	// Write a real deck the preview can read.
	p := gopresentation.New()
	slide := p.GetAllSlides()[0]
	title := slide.CreatePlaceholderShape(gopresentation.PlaceholderTitle)
	title.SetText("Launch Plan")
	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, p.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = env.sessions.Put(id, session.DeckName, bytes.NewReader(data))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/preview/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success     bool                `json:"success"`
		TotalSlides int                 `json:"total_slides"`
		Slides      []deck.SlidePreview `json:"slides"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.TotalSlides)
	require.Len(t, resp.Slides, 1)
	assert.Equal(t, "Launch Plan", resp.Slides[0].Title)
}

func TestPreviewNotReady(t *testing.T) {
	env := newRouterEnv(t)
	id, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/preview/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModels(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Providers       map[string]llm.ModelCatalog `json:"providers"`
		DefaultProvider string                      `json:"default_provider"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gemini", resp.DefaultProvider)
	assert.Len(t, resp.Providers, 3)
}

func TestHealth(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pptgen/internal/deck"
	"pptgen/internal/httpkit"
	"pptgen/internal/llm"
	apperrors "pptgen/internal/pkg/errors"
	"pptgen/internal/session"
)

// Slide count bounds applied to the num_slides form field.
const (
	minSlides     = 7
	maxSlides     = 40
	defaultSlides = 7
)

// Generate accepts text plus a template upload, runs the pipeline, and
// responds with the session's download URL. PDF conversion is queued so the
// response does not wait on it.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)
	start := time.Now()

	// The body is already capped by the MaxBytes middleware.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpkit.WriteAppErr(w, apperrors.PayloadTooLarge(h.cfg.MaxUploadBytes))
			return
		}
		httpkit.WriteAppErr(w, apperrors.Validation("Request must be multipart/form-data"))
		return
	}

	text := strings.TrimSpace(r.FormValue("text_content"))
	if text == "" {
		httpkit.WriteAppErr(w, apperrors.ValidationField("text_content", "Text content is required"))
		return
	}
	if len(text) > h.cfg.MaxTextChars {
		text = text[:h.cfg.MaxTextChars]
	}

	guidance := strings.TrimSpace(r.FormValue("guidance"))
	numSlides := clampSlides(r.FormValue("num_slides"))

	providerName := r.FormValue("ai_provider")
	if providerName == "" {
		providerName = llm.ProviderGemini
	}
	provider, err := llm.NewProvider(providerName, r.FormValue("api_key"), r.FormValue("ai_model"))
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}

	file, header, err := r.FormFile("template")
	if err != nil {
		httpkit.WriteAppErr(w, apperrors.ValidationField("template", "Template file is required"))
		return
	}
	defer file.Close()

	if !deck.AllowedTemplateFile(header.Filename) {
		httpkit.WriteAppErr(w, apperrors.ValidationField("template",
			"Only .pptx and .potx files are supported"))
		return
	}

	id, err := h.sessions.Create(ctx)
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}
	log = log.WithSessionID(id)

	templateName := "template_" + sanitizeFilename(header.Filename)
	if _, err := h.sessions.Put(id, templateName, file); err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}

	templatePath, err := h.sessions.Path(id, templateName)
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}
	if err := deck.ValidateTemplate(templatePath); err != nil {
		log.Warn("template rejected", "error", err.Error())
		httpkit.WriteAppErr(w, err)
		return
	}

	outputPath, err := h.sessions.Path(id, session.DeckName)
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}

	result, err := h.generate(ctx, provider, templatePath, outputPath, text, guidance, numSlides)
	if err != nil {
		log.Error("generation failed",
			"provider", provider.Name(),
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		httpkit.WriteAppErr(w, err)
		return
	}

	// The uploaded template is no longer needed once the deck is written.
	if err := h.sessions.Remove(id, templateName); err != nil {
		log.Warn("failed to remove uploaded template", "error", err.Error())
	}

	if err := h.queue.Push(ctx, id); err != nil {
		log.Warn("failed to queue pdf conversion", "error", err.Error())
	}

	log.Info("deck generated",
		"provider", provider.Name(),
		"model", provider.Model(),
		"slides", result.SlideCount,
		"multi_area", result.MultiArea,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"session_id":   id,
		"download_url": "/api/download/" + id,
		"slide_count":  result.SlideCount,
	})
}

func clampSlides(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultSlides
	}
	if n < minSlides {
		return minSlides
	}
	if n > maxSlides {
		return maxSlides
	}
	return n
}

// sanitizeFilename keeps uploads from escaping the session directory or
// carrying shell-hostile characters.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload.pptx"
	}
	return b.String()
}

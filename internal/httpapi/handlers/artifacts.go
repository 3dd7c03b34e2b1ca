package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pptgen/internal/convert"
	"pptgen/internal/deck"
	"pptgen/internal/httpkit"
	apperrors "pptgen/internal/pkg/errors"
	"pptgen/internal/session"
)

const (
	downloadName = "generated_presentation.pptx"
	pptxMIME     = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// PDFStatus reports whether the preview PDF has been written yet. Clients
// poll this until ready and then load the PDF itself.
func (h *Handler) PDFStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if _, err := h.sessions.Dir(id); err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}

	resp := map[string]any{"ready": false}
	if h.sessions.Exists(id, session.PDFName) {
		resp["ready"] = true
		if path, err := h.sessions.Path(id, session.PDFName); err == nil {
			if pages, err := convert.Verify(path); err == nil {
				resp["pages"] = pages
			}
		}
	}
	httpkit.WriteJSON(w, http.StatusOK, resp)
}

// Preview returns the structured text of the generated deck.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	path, err := h.sessions.Path(id, session.DeckName)
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}
	if !h.sessions.Exists(id, session.DeckName) {
		httpkit.WriteAppErr(w, apperrors.NotFound("presentation", id))
		return
	}

	result, err := deck.Preview(path)
	if err != nil {
		h.log.FromContext(r.Context()).WithSessionID(id).Error("preview failed", "error", err.Error())
		httpkit.WriteAppErr(w, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"total_slides": result.TotalSlides,
		"slides":       result.Slides,
	})
}

// Download streams the generated deck as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	rc, _, size, err := h.sessions.Open(id, session.DeckName)
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", pptxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.log.WithSessionID(id).Warn("download interrupted", "error", err.Error())
	}
}

// ServePDF streams the preview PDF inline for the embedded viewer.
func (h *Handler) ServePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	rc, _, size, err := h.sessions.Open(id, session.PDFName)
	if err != nil {
		httpkit.WriteAppErr(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline")
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	_, _ = io.Copy(w, rc)
}

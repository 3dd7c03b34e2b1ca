package handlers

import (
	"net/http"
	"os"

	"pptgen/internal/httpkit"
	"pptgen/internal/llm"
)

// Health performs a health check of the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "ok",
		"service": "pptgen-api",
		"version": "0.1.0",
	}

	// Check if deep health check is requested
	if r.URL.Query().Get("deep") == "true" {
		checks := map[string]any{
			"session_root": h.checkSessionRoot(),
		}
		health["checks"] = checks
		for _, check := range checks {
			if m, ok := check.(map[string]any); ok && m["status"] != "ok" {
				health["status"] = "degraded"
				h.log.Warn("health check degraded", "checks", checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, http.StatusOK, health)
}

func (h *Handler) checkSessionRoot() map[string]any {
	result := map[string]any{"status": "ok", "root": h.sessions.Root()}
	if _, err := os.Stat(h.sessions.Root()); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}
	return result
}

// Models lists the supported providers and their model choices.
func (h *Handler) Models(w http.ResponseWriter, _ *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"providers":        llm.Catalog(),
		"default_provider": llm.ProviderGemini,
	})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/botconsole/internal/pkg/httputil"
)

// ListBots returns all registered bots.
func (h *Handlers) ListBots(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bots.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, out)
}

// GetBot returns the active bot addressed by its abbreviation.
func (h *Handlers) GetBot(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bots.GetByAbbreviation(r.Context(), chi.URLParam(r, "abbr"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, b)
}

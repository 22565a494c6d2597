package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/botconsole/internal/pkg/httputil"
	"github.com/ignite/botconsole/internal/service/flows"
)

// ListFlows returns one page of flows. Filters: `name` (substring match in
// the language given by `language`, default EN),
// `created_from`/`created_to`, `updated_from`/`updated_to`,
// `triggered_from`/`triggered_to`.
func (h *Handlers) ListFlows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := flows.ListFilter{
		Name:      optParam(q, "name"),
		Language:  q.Get("language"),
		CreatedAt: optTimeSpan(q, "created_from", "created_to", h.loc),
		UpdatedAt: optTimeSpan(q, "updated_from", "updated_to", h.loc),
		Triggered: optIntSpan(q, "triggered_from", "triggered_to"),
		Sort:      parseSort(q),
		Page:      parsePage(q),
	}
	out, err := h.Flows.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, out)
}

// GetFlow returns a single flow.
func (h *Handlers) GetFlow(w http.ResponseWriter, r *http.Request) {
	fl, err := h.Flows.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, fl)
}

// CreateFlow creates a new flow.
func (h *Handlers) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var input flows.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	fl, err := h.Flows.Create(r.Context(), input, actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.Created(w, fl)
}

type flowUpdateRequest struct {
	Name      map[string]string `json:"name"`
	Type      *string           `json:"type"`
	Platforms []string          `json:"platforms"`
}

// UpdateFlow applies a partial update; omitted fields are left alone.
func (h *Handlers) UpdateFlow(w http.ResponseWriter, r *http.Request) {
	var req flowUpdateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	u := flows.UpdateFields{Name: req.Name, Type: req.Type, Platforms: req.Platforms}
	if err := h.Flows.Update(r.Context(), chi.URLParam(r, "id"), u, actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "updated"})
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

// DeleteFlows retires the given flows.
func (h *Handlers) DeleteFlows(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.Flows.Delete(r.Context(), req.IDs, actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}

// FlowFieldValues returns the distinct values of a filterable field, for
// the console's filter dropdowns.
func (h *Handlers) FlowFieldValues(w http.ResponseWriter, r *http.Request) {
	values, err := h.Flows.FieldValues(r.Context(), chi.URLParam(r, "field"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, values)
}

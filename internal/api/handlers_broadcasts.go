package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/botconsole/internal/pkg/httputil"
	"github.com/ignite/botconsole/internal/service/broadcast"
	"github.com/ignite/botconsole/internal/targeting"
)

// ListTemplates returns one page of broadcast templates. Filters: `name`
// (substring match), `flows` (comma-separated flow ids, any-of by default,
// all-of with `intersect`), `platform`.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := broadcast.TemplateFilter{
		Name:      optParam(q, "name"),
		Flows:     optList(q, "flows"),
		Intersect: q.Get("intersect") == "true",
		Platform:  optParam(q, "platform"),
		Sort:      parseSort(q),
		Page:      parsePage(q),
	}
	out, err := h.Broadcasts.ListTemplates(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, out)
}

// GetTemplate returns a single template.
func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.Broadcasts.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, t)
}

// CreateTemplate validates and creates a template.
func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input broadcast.TemplateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	t, err := h.Broadcasts.CreateTemplate(r.Context(), input, actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.Created(w, t)
}

// UpdateTemplate replaces a template's content. Templates already referenced
// by a dispatch are immutable and answer 409.
func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var input broadcast.TemplateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if err := h.Broadcasts.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), input, actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "updated"})
}

// DeleteTemplate retires a template.
func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Broadcasts.DeleteTemplate(r.Context(), chi.URLParam(r, "id"), actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}

// ListHistory returns one page of dispatch records. Filters: `tags`
// (any-of by default, all-of with `intersect`), `status`.
func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := broadcast.HistoryFilter{
		Tags:      optList(q, "tags"),
		Intersect: q.Get("intersect") == "true",
		Status:    optParam(q, "status"),
		Sort:      parseSort(q),
		Page:      parsePage(q),
	}
	out, err := h.Broadcasts.ListHistory(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, out)
}

// GetBroadcast returns a single dispatch record.
func (h *Handlers) GetBroadcast(w http.ResponseWriter, r *http.Request) {
	b, err := h.Broadcasts.GetBroadcast(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, b)
}

// UserTags lists the distinct tags available for targeting.
func (h *Handlers) UserTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Broadcasts.UserTags(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, tags)
}

// selectorFromQuery builds a recipient selector from query params: `tags`,
// `exclude` (comma-separated), `intersect`, `to_all`.
func selectorFromQuery(r *http.Request) targeting.Selector {
	q := r.URL.Query()
	sel := targeting.Selector{}
	if vs, _ := optList(q, "tags").Get(); vs != nil {
		sel.IncludeTags = vs
	}
	if vs, _ := optList(q, "exclude").Get(); vs != nil {
		sel.ExcludeTags = vs
	}
	sel.Intersect, _ = strconv.ParseBool(q.Get("intersect"))
	sel.IncludeAll, _ = strconv.ParseBool(q.Get("to_all"))
	return sel
}

// PreviewRecipients resolves a selector to the list of user IDs it targets,
// without creating a dispatch record.
func (h *Handlers) PreviewRecipients(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Broadcasts.ResolveRecipients(r.Context(), selectorFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"users": ids, "total": len(ids)})
}

// SendBroadcast plans a broadcast: validates the template, resolves the
// recipient set, and persists one pending dispatch record for the worker.
func (h *Handlers) SendBroadcast(w http.ResponseWriter, r *http.Request) {
	var input broadcast.PlanInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	b, err := h.Broadcasts.Plan(r.Context(), input, actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.Created(w, b)
}

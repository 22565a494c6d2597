package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/pkg/httputil"
	"github.com/ignite/botconsole/internal/service/questions"
)

// ListQuestions returns one page of questions. Filters: `topic`, `text`
// (substring match in `language`, default EN), `created_from`/`created_to`,
// `internal`.
func (h *Handlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := questions.ListFilter{
		Topic:     optParam(q, "topic"),
		Text:      optParam(q, "text"),
		Language:  q.Get("language"),
		CreatedAt: optTimeSpan(q, "created_from", "created_to", h.loc),
		Internal:  optBool(q, "internal"),
		Sort:      parseSort(q),
		Page:      parsePage(q),
	}
	out, err := h.Questions.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, out)
}

// GetQuestion returns a single question.
func (h *Handlers) GetQuestion(w http.ResponseWriter, r *http.Request) {
	qu, err := h.Questions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, qu)
}

// CreateQuestion creates a new question.
func (h *Handlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var input questions.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	qu, err := h.Questions.Create(r.Context(), input, actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.Created(w, qu)
}

type questionUpdateRequest struct {
	Text       map[string]string          `json:"text"`
	Topic      *string                    `json:"topic"`
	Keywords   []string                   `json:"keywords"`
	Answers    []domain.QuestionAnswer    `json:"answers"`
	Variations []domain.QuestionVariation `json:"alternate_questions"`
	ActiveAt   *time.Time                 `json:"active_at"`
	ExpireAt   *time.Time                 `json:"expire_at"`
}

// UpdateQuestion applies a partial update; omitted fields are left alone.
func (h *Handlers) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionUpdateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	u := questions.UpdateFields{
		Text:       req.Text,
		Topic:      req.Topic,
		Keywords:   req.Keywords,
		Answers:    req.Answers,
		Variations: req.Variations,
		ActiveAt:   req.ActiveAt,
		ExpireAt:   req.ExpireAt,
	}
	if err := h.Questions.Update(r.Context(), chi.URLParam(r, "id"), u, actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "updated"})
}

// DeleteQuestions retires the given questions.
func (h *Handlers) DeleteQuestions(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.Questions.Delete(r.Context(), req.IDs, actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}

package api

import (
	"errors"
	"net/http"

	"github.com/ignite/botconsole/internal/pkg/httputil"
	"github.com/ignite/botconsole/internal/query"
	"github.com/ignite/botconsole/internal/service/bots"
	"github.com/ignite/botconsole/internal/service/broadcast"
	"github.com/ignite/botconsole/internal/service/flows"
	"github.com/ignite/botconsole/internal/service/questions"
)

// writeServiceError maps service-layer sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with the detail kept server-side.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidPage),
		errors.Is(err, flows.ErrInvalidField),
		errors.Is(err, flows.ErrValidation),
		errors.Is(err, questions.ErrValidation),
		errors.Is(err, broadcast.ErrValidation):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, bots.ErrNotFound),
		errors.Is(err, flows.ErrNotFound),
		errors.Is(err, questions.ErrNotFound),
		errors.Is(err, broadcast.ErrNotFound),
		errors.Is(err, broadcast.ErrRecordNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, broadcast.ErrTemplateLocked):
		httputil.Conflict(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

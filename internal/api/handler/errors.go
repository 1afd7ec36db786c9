package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// respondError maps the service error taxonomy onto status codes. Conflicts
// surface as 400 like validation failures; the API contract does not
// distinguish them, only the internal taxonomy does. Anything outside the
// taxonomy is a 500 with the detail kept out of the response.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled service error")
		response.InternalError(w, "internal server error")
	}
}

package site

import (
	"errors"
	"net/http"
	"solara/database"
	"solara/logging"
	"solara/response"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func writeError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	var bad *badRequest
	switch {
	case errors.As(err, &bad):
		response.Error(w, http.StatusBadRequest, bad.msg)
	case errors.Is(err, database.ErrNotFound):
		response.Error(w, http.StatusNotFound, subject+" not found")
	case errors.Is(err, database.ErrSlugTaken):
		response.Error(w, http.StatusConflict, "A "+subject+" with the same slug already exists")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func idParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &badRequest{msg: "invalid id " + strconv.Quote(raw)}
	}
	return uint(id), nil
}

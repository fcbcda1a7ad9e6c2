package handler

import (
	"errors"
	"net/http"

	"github.com/frololego/Prikoliga/internal/api/respond"
	"github.com/frololego/Prikoliga/internal/fixture"
	"github.com/frololego/Prikoliga/internal/forecast"
)

// writeCoreError maps core errors onto the wire taxonomy. Validation and
// not-found errors keep their specific message; everything else collapses to
// a generic 500 so storage and transport details never leak.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, forecast.ErrBadScoreline),
		errors.Is(err, forecast.ErrMatchStarted),
		errors.Is(err, forecast.ErrBlankUser):
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, fixture.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}

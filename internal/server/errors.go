package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/proposal-assistant/internal/evaluate"
	"github.com/jonathan/proposal-assistant/internal/extract"
	"github.com/jonathan/proposal-assistant/internal/session"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var unsupported *extract.UnsupportedFormatError
	var tooLarge *extract.TooLargeError
	var sectionBusy *session.SectionBusyError
	var backend *evaluate.BackendError

	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBusy), errors.As(err, &sectionBusy):
		return http.StatusConflict
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.Is(err, evaluate.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.As(err, &backend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

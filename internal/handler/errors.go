package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/service"
)

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		render.FieldError(w, validationErr.Field, validationErr.Message)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, render.ErrInvalidBody),
		errors.Is(err, service.ErrGoalNotActive):
		status = http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrOAuthAccount),
		errors.Is(err, service.ErrInvalidCurrentPassword):
		status = http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrCannotModifySelf),
		errors.Is(err, service.ErrPasswordlessAccount):
		status = http.StatusForbidden

	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCheckInNotFound),
		errors.Is(err, repository.ErrWaitlistEntryNotFound),
		errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, service.ErrNoActiveGoal):
		status = http.StatusNotFound

	case errors.Is(err, service.ErrActiveGoalExists),
		errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyOnWaitlist):
		status = http.StatusConflict

	case errors.Is(err, service.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		render.Message(w, status, "internal server error")
		return
	}

	render.Message(w, status, publicMessage(err))
}

// publicMessage strips wrapping so callers see the domain message only.
func publicMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

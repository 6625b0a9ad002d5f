package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-task-api/internal/model"
	"go-task-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// writeError is the single boundary translator from domain errors to HTTP.
// Storage faults never leak their detail to the client.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "An internal server error occurred"
	var details *string

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
		if apiErr.Details != "" {
			details = &apiErr.Details
		}
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	case errors.Is(err, model.ErrTaskNotFound):
		status = http.StatusNotFound
		message = "Task not found for the given ID under this user"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		message = "Email registered already"
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
		message = "Invalid input"
	default:
		// Unclassified errors are storage or programming faults; log them
		// so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Status:  "error",
		Message: message,
		Errors:  details,
	})
}

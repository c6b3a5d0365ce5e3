package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

// HandleError logs err at a level matching its kind and writes the mapped
// status. Internal details never reach the client.
func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	status, code := errs.HTTPStatus(err)

	var (
		notFound     *errs.NotFoundError
		validation   *errs.ValidationError
		unauthorized *errs.UnauthorizedError
		badLink      *errs.BadLinkError
		database     *errs.DatabaseError
		external     *errs.ExternalServiceError
		encryption   *errs.EncryptionError
	)

	message := "An error occurred"
	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		message = notFound.Message

	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
		message = validation.Message

	case errors.As(err, &unauthorized):
		log.Info("unauthorized request", "error", unauthorized.Message)
		message = unauthorized.Message

	case errors.As(err, &badLink):
		log.Info("bad shared link", "error", badLink.Err)
		message = "The shared link is invalid or corrupted"

	case errors.As(err, &database):
		log.Error("database error",
			"operation", database.Operation,
			"error", database.Err)

	case errors.As(err, &external):
		level := slog.LevelError
		if external.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", external.Service,
			"transient", external.Transient,
			"error", external.Message)
		message = "Upstream request failed"
		if external.Transient {
			message = "Service temporarily unavailable"
		}

	case errors.As(err, &encryption):
		log.Error("encryption error", "error", encryption.Message, "cause", encryption.Err)

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		message = "An unexpected error occurred"
	}

	h.WriteError(w, r, status, code, message)
}

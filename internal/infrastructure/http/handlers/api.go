// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/infrastructure/http/middleware"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// base holds what every handler group needs to decode requests and write
// responses
type base struct {
	validator *Validator
	logger    *zap.Logger
}

// decode reads a JSON body into dst and validates it. On failure it has
// already written the error response.
func (b base) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			b.writeError(w, r, apperrors.NewAppError(apperrors.CodeBadRequest, "Request body too large", ""))
		case errors.Is(err, io.EOF):
			b.writeError(w, r, apperrors.NewBadRequestError("Request body is required"))
		default:
			b.writeError(w, r, apperrors.NewBadRequestError("Invalid JSON payload"))
		}
		return false
	}

	if appErr := b.validator.Struct(dst); appErr != nil {
		b.writeError(w, r, appErr)
		return false
	}
	return true
}

// userID returns the authenticated user or writes 401
func (b base) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		b.writeError(w, r, apperrors.NewUnauthorizedError("User not authenticated"))
	}
	return id, ok
}

func (b base) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	middleware.WriteJSON(w, status, data)
}

// writeError maps err to an AppError and writes the error envelope. Server
// side failures are logged with their cause.
func (b base) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Wrap(err, "An unexpected error occurred")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		b.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr.Cause),
		)
	}
	middleware.WriteError(w, r, appErr, 0)
}

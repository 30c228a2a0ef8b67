package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/application/user"
	"github.com/macrotrack/api/internal/infrastructure/http/middleware"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

// AuthAPIHandlers handles signup, login and the user's own profile
type AuthAPIHandlers struct {
	base
	userService *user.UserService
}

// NewAuthAPIHandlers creates a new authentication API handlers instance
func NewAuthAPIHandlers(userService *user.UserService, validator *Validator, logger *zap.Logger) *AuthAPIHandlers {
	return &AuthAPIHandlers{
		base:        base{validator: validator, logger: logger},
		userService: userService,
	}
}

// Signup handles POST /api/signup
func (h *AuthAPIHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var cmd user.SignupCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	created, err := h.userService.Signup(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// Login handles POST /api/login
func (h *AuthAPIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var cmd user.LoginCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	result, err := h.userService.Login(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/logout. The presented token stops working at once.
func (h *AuthAPIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.ExpiresAt == nil {
		h.writeError(w, r, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	if err := h.userService.Logout(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Logout successful"})
}

// GetProfile handles GET /api/profile
func (h *AuthAPIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *AuthAPIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var cmd user.UpdateProfileCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), userID, cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/application/intake"
)

// IntakeAPIHandlers serves the food log and the daily dashboard
type IntakeAPIHandlers struct {
	base
	intakeService *intake.Service
}

// NewIntakeAPIHandlers creates the food log handlers
func NewIntakeAPIHandlers(intakeService *intake.Service, validator *Validator, logger *zap.Logger) *IntakeAPIHandlers {
	return &IntakeAPIHandlers{
		base:          base{validator: validator, logger: logger},
		intakeService: intakeService,
	}
}

type dashboardResponse struct {
	Success bool `json:"success"`
	*intake.Dashboard
}

// AddFood handles POST /api/add-food
func (h *IntakeAPIHandlers) AddFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var cmd intake.AddFoodCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	entry, err := h.intakeService.AddFood(r.Context(), userID, cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, entry)
}

// SelectedFoods handles GET /api/selected-food
func (h *IntakeAPIHandlers) SelectedFoods(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	entries, err := h.intakeService.SelectedFoods(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// LatestFood handles GET /api/latest-food
func (h *IntakeAPIHandlers) LatestFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	entry, err := h.intakeService.LatestFood(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// AddToDashboard handles POST /api/add-food-to-dashboard
func (h *IntakeAPIHandlers) AddToDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var cmd intake.DashboardCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	if _, err := h.intakeService.AddToDashboard(r.Context(), userID, cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Food intake updated"})
}

// Dashboard handles GET /api/dashboard-data
func (h *IntakeAPIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	dash, err := h.intakeService.Dashboard(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dashboardResponse{Success: true, Dashboard: dash})
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/application/goals"
	"github.com/macrotrack/api/internal/domain/vitals"
)

// GoalsAPIHandlers serves goal profiles and vitals readings
type GoalsAPIHandlers struct {
	base
	goalsService *goals.Service
}

// NewGoalsAPIHandlers creates the goal profile handlers
func NewGoalsAPIHandlers(goalsService *goals.Service, validator *Validator, logger *zap.Logger) *GoalsAPIHandlers {
	return &GoalsAPIHandlers{
		base:         base{validator: validator, logger: logger},
		goalsService: goalsService,
	}
}

type userDetailsResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message,omitempty"`
	UserDetails *goals.UserDetailsDTO `json:"userDetails"`
}

type vitalsResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	Vitals      *vitals.Reading       `json:"vitals"`
	UserDetails *goals.UserDetailsDTO `json:"userDetails"`
}

type vitalsHistoryResponse struct {
	Success bool `json:"success"`
	*goals.VitalsHistory
}

// CalculateGoals handles POST /api/calculate-goals
func (h *GoalsAPIHandlers) CalculateGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var cmd goals.SetGoalsCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	details, err := h.goalsService.SetGoals(r.Context(), userID, cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userDetailsResponse{
		Success:     true,
		Message:     "Goals updated successfully!",
		UserDetails: details,
	})
}

// FetchGoal handles GET /api/fetchGoal
func (h *GoalsAPIHandlers) FetchGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	details, err := h.goalsService.GetGoals(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userDetailsResponse{Success: true, UserDetails: details})
}

// RecordVitals handles POST /api/vitals
func (h *GoalsAPIHandlers) RecordVitals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var cmd goals.RecordVitalsCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	result, err := h.goalsService.RecordVitals(r.Context(), userID, cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, vitalsResponse{
		Success:     true,
		Message:     "Vitals recorded and goals updated",
		Vitals:      result.Vitals,
		UserDetails: result.UserDetails,
	})
}

// ListVitals handles GET /api/vitals
func (h *GoalsAPIHandlers) ListVitals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	history, err := h.goalsService.ListVitals(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, vitalsHistoryResponse{Success: true, VitalsHistory: history})
}

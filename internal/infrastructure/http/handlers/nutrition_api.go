package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/application/nutrition"
)

// NutritionAPIHandlers answers nutrition lookups
type NutritionAPIHandlers struct {
	base
	nutritionService *nutrition.Service
}

// NewNutritionAPIHandlers creates the lookup handler
func NewNutritionAPIHandlers(nutritionService *nutrition.Service, validator *Validator, logger *zap.Logger) *NutritionAPIHandlers {
	return &NutritionAPIHandlers{
		base:             base{validator: validator, logger: logger},
		nutritionService: nutritionService,
	}
}

// Analyze handles POST /api/analyze
func (h *NutritionAPIHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var cmd nutrition.AnalyzeCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	facts, err := h.nutritionService.Analyze(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, facts)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lgrando1/leo-tracker/internal/services"
)

type WeightHandler struct {
	weightService *services.WeightService
}

func NewWeightHandler(weightService *services.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

type recordWeightRequest struct {
	WeightKg float64 `json:"weight_kg"`
}

// Record upserts the sample for the date in the path.
func (handler *WeightHandler) Record(w http.ResponseWriter, r *http.Request) {
	var request recordWeightRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, err)
		return
	}

	sample, err := handler.weightService.Record(r.Context(), chi.URLParam(r, "date"), request.WeightKg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

func (handler *WeightHandler) List(w http.ResponseWriter, r *http.Request) {
	samples, err := handler.weightService.Range(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, samples)
}

func (handler *WeightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.weightService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

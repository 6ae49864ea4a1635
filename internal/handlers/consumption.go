package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lgrando1/leo-tracker/internal/services"
)

type ConsumptionHandler struct {
	consumptionService *services.ConsumptionService
	calendar           *services.Calendar
}

func NewConsumptionHandler(consumptionService *services.ConsumptionService, calendar *services.Calendar) *ConsumptionHandler {
	return &ConsumptionHandler{
		consumptionService: consumptionService,
		calendar:           calendar,
	}
}

func (handler *ConsumptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ConsumptionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	event, err := handler.consumptionService.Append(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

type logReferenceRequest struct {
	FoodID     string     `json:"food_id"`
	QuantityG  float64    `json:"quantity_g"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

func (handler *ConsumptionHandler) LogReference(w http.ResponseWriter, r *http.Request) {
	var request logReferenceRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, err)
		return
	}
	if request.FoodID == "" {
		writeError(w, &services.ValidationError{Field: "food_id", Reason: "required"})
		return
	}

	event, err := handler.consumptionService.LogReference(r.Context(), request.FoodID, request.QuantityG, request.ConsumedAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// Import accepts raw producer output, fenced or not.
func (handler *ConsumptionHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := handler.consumptionService.Import(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, events)
}

// List serves ?date= or ?from=&to=; with neither it returns today.
func (handler *ConsumptionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to := query.Get("from"), query.Get("to")

	if from != "" || to != "" {
		events, err := handler.consumptionService.Range(r.Context(), from, to)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	date := query.Get("date")
	if date == "" {
		date = handler.calendar.Today()
	}
	events, err := handler.consumptionService.Day(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (handler *ConsumptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.consumptionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

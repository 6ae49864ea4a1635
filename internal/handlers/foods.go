package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"github.com/lgrando1/leo-tracker/internal/services"
)

type FoodHandler struct {
	referenceService *services.ReferenceService
}

func NewFoodHandler(referenceService *services.ReferenceService) *FoodHandler {
	return &FoodHandler{referenceService: referenceService}
}

func (handler *FoodHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, &services.ValidationError{Field: "limit", Reason: "expected a non-negative integer"})
			return
		}
		limit = parsed
	}

	foods, err := handler.referenceService.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

type createFoodRequest struct {
	Name    string        `json:"name"`
	Per100g models.Macros `json:"per_100g"`
}

func (handler *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request createFoodRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, err)
		return
	}

	food, err := handler.referenceService.Create(r.Context(), request.Name, request.Per100g)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

// Import replaces the reference set with the table in the request body.
// Query: mode=header|fixed, header=true|false (fixed mode only, default
// true), encodings=comma separated candidates.
func (handler *FoodHandler) Import(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	options := reference.Options{Mode: reference.Mode(query.Get("mode")), SkipFirstRow: true}

	if raw := query.Get("header"); raw != "" {
		skip, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, &services.ValidationError{Field: "header", Reason: "expected true or false"})
			return
		}
		options.SkipFirstRow = skip
	}
	if raw := query.Get("encodings"); raw != "" {
		options.Encodings = strings.Split(raw, ",")
	}
	if options.Mode != "" && options.Mode != reference.ModeHeader && options.Mode != reference.ModeFixed {
		writeError(w, &services.ValidationError{Field: "mode", Reason: "expected header or fixed"})
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := handler.referenceService.Ingest(r.Context(), body, options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

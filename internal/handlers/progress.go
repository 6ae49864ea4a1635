package handlers

import (
	"net/http"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
	calendar        *services.Calendar
}

func NewProgressHandler(progressService *services.ProgressService, calendar *services.Calendar) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		calendar:        calendar,
	}
}

func (handler *ProgressHandler) Day(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = handler.calendar.Today()
	}

	summary, err := handler.progressService.DaySummary(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Series serves ?from=&to=, defaulting to the configured history window.
func (handler *ProgressHandler) Series(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

	var (
		series []models.DayTotals
		err    error
	)
	if from == "" && to == "" {
		series, err = handler.progressService.History(r.Context())
	} else {
		series, err = handler.progressService.Series(r.Context(), from, to)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (handler *ProgressHandler) Weight(w http.ResponseWriter, r *http.Request) {
	trend, err := handler.progressService.WeightTrend(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

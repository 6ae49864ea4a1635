package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"github.com/lgrando1/leo-tracker/internal/repository"
	"github.com/lgrando1/leo-tracker/internal/services"
)

const maxBodyBytes = 16 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps the error taxonomy onto status codes. Input problems
// carry their diagnostics; unexpected failures are logged and hidden.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *services.ValidationError
		columnErr     *reference.ColumnResolutionError
		decodeErr     *reference.DecodeError
	)
	body := map[string]interface{}{"error": err.Error()}

	switch {
	case errors.As(err, &validationErr):
		body["field"] = validationErr.Field
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &columnErr):
		body["missing"] = columnErr.Missing
		body["headers"] = columnErr.Headers
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.As(err, &decodeErr):
		body["tried"] = decodeErr.Tried
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, reference.ErrEmptyTable), errors.Is(err, repository.ErrReplaceRolledBack):
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, body)
	case errors.Is(err, database.ErrUnavailable):
		slog.Error("storage unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, body)
	default:
		slog.Error("handling request", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeJSON(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return &services.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, &services.ValidationError{Field: "body", Reason: err.Error()}
	}
	return body, nil
}

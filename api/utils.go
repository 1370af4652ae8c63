package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"estate-adviser/adviser"
	"estate-adviser/database"
	"estate-adviser/modelstore"
	"estate-adviser/regress"
)

// writeJSON encodes a response body with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP statuses: bad input → 400, unknown
// markets/models → 404, unmeasurable training data and store faults → 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *database.NotFoundError
	var validation *database.ValidationError
	switch {
	case errors.Is(err, adviser.ErrBadLocation), errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.Is(err, modelstore.ErrModelNotFound), errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.Is(err, regress.ErrInsufficientData):
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

// getIntParam retrieves an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultVal int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// getFloatParam retrieves a float query parameter with a default value
func getFloatParam(r *http.Request, key string, defaultVal float64) float64 {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

// getFloatPtrParam retrieves an optional float query parameter, nil when absent
func getFloatPtrParam(r *http.Request, key string) *float64 {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return nil
	}
	return &val
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/skill-code/skillcode-backend/internal/assessment"
)

var validate = validator.New()

// decodeValid decodes the JSON body into dst and runs struct validation.
// Malformed or invalid payloads are rejected before any domain logic runs.
func decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, "invalid request data", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// storeError maps domain sentinels to status codes; anything else is a store
// failure and surfaces as 500 for the caller to retry.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assessment.ErrAssessmentNotFound):
		http.Error(w, "assessment not found", http.StatusNotFound)
	case errors.Is(err, assessment.ErrQuestionNotFound):
		http.Error(w, "question not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

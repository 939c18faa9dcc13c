package http

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skill-code/skillcode-backend/internal/assessment"
)

// GET /mentors/{mentorID}: mentor profile with their assessment summaries.
func MentorProfileHandler(db *sql.DB, store assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mentorID")

		var name, email string
		err := db.QueryRowContext(r.Context(),
			`SELECT name, email FROM users WHERE id=$1 AND role='mentor'`, id).
			Scan(&name, &email)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "mentor not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		list, err := store.ListMentorAssessments(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"id":          id,
			"name":        name,
			"email":       email,
			"assessments": list,
		})
	}
}

package http

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skill-code/skillcode-backend/internal/assessment"
	authmw "github.com/skill-code/skillcode-backend/internal/auth/middleware"
)

type releaseGradesReq struct {
	AssessmentID  string             `json:"assessment_id" validate:"required"`
	StudentGrades map[string]float64 `json:"student_grades" validate:"required,min=1"`
}

// POST /mentors/grades: release scores for an assessment in one batch.
func ReleaseGradesHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req releaseGradesReq
		if !decodeValid(w, r, &req) {
			return
		}
		mentorID := authmw.SubjectFromContext(r.Context())
		if mentorID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if _, err := store.GetAssessment(r.Context(), req.AssessmentID); err != nil {
			storeError(w, err)
			return
		}

		gs := make([]assessment.Grade, 0, len(req.StudentGrades))
		for studentID, score := range req.StudentGrades {
			gs = append(gs, assessment.Grade{
				MentorID:     mentorID,
				StudentID:    studentID,
				AssessmentID: req.AssessmentID,
				Score:        score,
			})
		}
		if err := store.AddGrades(r.Context(), gs); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"message": "grades released successfully"})
	}
}

// GET /students/grades/{studentID}/{assessmentID}: grades for one student on
// one assessment.
//
// TODO: cross-check studentID against the authenticated subject; any
// authenticated caller can currently read any student's grades.
func StudentGradesHandler(db *sql.DB, store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "studentID")
		assessmentID := chi.URLParam(r, "assessmentID")

		var email string
		err := db.QueryRowContext(r.Context(),
			`SELECT email FROM users WHERE id=$1 AND role='student'`, studentID).Scan(&email)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "student not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a, err := store.GetAssessment(r.Context(), assessmentID)
		if err != nil {
			storeError(w, err)
			return
		}

		grades, err := store.ListGrades(r.Context(), studentID, assessmentID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"student_id":       studentID,
			"student_email":    email,
			"assessment_id":    a.ID,
			"assessment_title": a.Title,
			"grades":           grades,
		})
	}
}

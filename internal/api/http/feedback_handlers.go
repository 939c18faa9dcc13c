package http

import (
	"database/sql"
	"net/http"

	"github.com/skill-code/skillcode-backend/internal/assessment"
	authmw "github.com/skill-code/skillcode-backend/internal/auth/middleware"
)

type feedbackReq struct {
	MentorID     string `json:"mentor_id" validate:"required"`
	AssessmentID string `json:"assessment_id" validate:"required"`
	QuestionID   string `json:"question_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	Text         string `json:"text" validate:"required"`
}

// POST /mentors/feedback: mentor attaches per-question feedback for a student.
// Referential checks mirror the write path: mentor exists, assessment belongs
// to the mentor, question belongs to the assessment, student exists.
//
// TODO: take mentor_id from the authenticated subject instead of the body and
// reject mismatches.
func LeaveFeedbackHandler(db *sql.DB, store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackReq
		if !decodeValid(w, r, &req) {
			return
		}

		if !userExists(r, db, req.MentorID, "mentor") {
			http.Error(w, "mentor not found", http.StatusNotFound)
			return
		}

		a, err := store.GetAssessment(r.Context(), req.AssessmentID)
		if err != nil {
			storeError(w, err)
			return
		}
		if a.MentorID != req.MentorID {
			http.Error(w, "assessment does not belong to the mentor", http.StatusNotFound)
			return
		}
		found := false
		for _, q := range a.Questions {
			if q.ID == req.QuestionID {
				found = true
				break
			}
		}
		if !found {
			http.Error(w, "question not found in assessment", http.StatusNotFound)
			return
		}

		if !userExists(r, db, req.StudentID, "student") {
			http.Error(w, "student not found", http.StatusNotFound)
			return
		}

		f, err := store.AddFeedback(r.Context(), assessment.Feedback{
			MentorID:     req.MentorID,
			AssessmentID: req.AssessmentID,
			QuestionID:   req.QuestionID,
			StudentID:    req.StudentID,
			Text:         req.Text,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"id":      f.ID,
			"message": "feedback submitted successfully",
		})
	}
}

// GET /students/feedback?assessment_id=: the caller's own feedback.
func ListFeedbackHandler(store assessment.FeedbackStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		list, err := store.ListFeedback(r.Context(), studentID, r.URL.Query().Get("assessment_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"feedback": list})
	}
}

func userExists(r *http.Request, db *sql.DB, id, role string) bool {
	var one int
	err := db.QueryRowContext(r.Context(),
		`SELECT 1 FROM users WHERE id=$1 AND role=$2`, id, role).Scan(&one)
	return err == nil
}

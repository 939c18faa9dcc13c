package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skill-code/skillcode-backend/internal/assessment"
	"github.com/skill-code/skillcode-backend/internal/attempt"
	authmw "github.com/skill-code/skillcode-backend/internal/auth/middleware"
)

type answerReq struct {
	Answer string `json:"answer" validate:"required"`
}

// GET /assessments/{assessmentID}/questions/{pos}: render one question for
// display. The correct answer is never present on this path.
func ViewQuestionHandler(machine *attempt.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
		if err != nil {
			http.Error(w, "invalid question position", http.StatusBadRequest)
			return
		}
		v, err := machine.View(r.Context(), chi.URLParam(r, "assessmentID"), pos)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, v)
	}
}

// POST /assessments/{assessmentID}/questions/{pos}: judge and record the
// submission, then return the next question or a completion message. The
// student identity comes from the token, never the body. Each call appends a
// fresh ledger event, including resubmissions of the same position.
func AnswerQuestionHandler(machine *attempt.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
		if err != nil {
			http.Error(w, "invalid question position", http.StatusBadRequest)
			return
		}
		var req answerReq
		if !decodeValid(w, r, &req) {
			return
		}
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := machine.Answer(r.Context(), chi.URLParam(r, "assessmentID"), pos, studentID, req.Answer)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, res)
	}
}

// GET /assessments/{assessmentID}/responses?student_id=: a student's raw
// answer events in insertion order, for mentors grading offline.
func ListResponsesHandler(ledger assessment.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := r.URL.Query().Get("student_id")
		if studentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		events, err := ledger.ListResponses(r.Context(), studentID, chi.URLParam(r, "assessmentID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"responses": events})
	}
}

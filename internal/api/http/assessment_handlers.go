package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skill-code/skillcode-backend/internal/assessment"
	authmw "github.com/skill-code/skillcode-backend/internal/auth/middleware"
	"github.com/skill-code/skillcode-backend/internal/rbac"
)

type createQuestionReq struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

type createAssessmentReq struct {
	Title     string              `json:"title" validate:"required"`
	Questions []createQuestionReq `json:"questions" validate:"required,min=1,dive"`
}

// POST /assessments: mentor-only authoring. Questions get contiguous 1-based
// positions in the order submitted; the correct answer must be one of the four
// options, checked here and never re-checked at answer time.
func CreateAssessmentHandler(store assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAssessmentReq
		if !decodeValid(w, r, &req) {
			return
		}
		mentorID := authmw.SubjectFromContext(r.Context())
		if mentorID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a := assessment.Assessment{
			ID:       uuid.NewString(),
			Title:    req.Title,
			MentorID: mentorID,
		}
		for i, q := range req.Questions {
			if !contains(q.Options, q.CorrectAnswer) {
				http.Error(w, "correct answer must be one of the options", http.StatusBadRequest)
				return
			}
			a.Questions = append(a.Questions, assessment.Question{
				ID:            uuid.NewString(),
				AssessmentID:  a.ID,
				Position:      i + 1,
				Text:          q.Text,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
			})
		}

		if err := store.PutAssessment(r.Context(), a); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{
			"id":      a.ID,
			"message": "assessment created successfully",
		})
	}
}

// GET /assessments/{assessmentID}: correct answers are stripped unless the
// caller's role holds assessment:view-answers (mentors reviewing their
// material).
func GetAssessmentHandler(store assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		a, err := store.GetAssessment(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		if !rbac.Can(rbac.RoleFromContext(r.Context()), "assessment:view-answers") {
			a = a.WithoutAnswers()
		}
		writeJSON(w, a)
	}
}

// GET /assessments?q=&limit=&offset=
func ListAssessmentsHandler(store assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAssessments(r.Context(), assessment.ListOpts{
			Q:      r.URL.Query().Get("q"),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"assessments": list})
	}
}

func contains(opts []string, s string) bool {
	for _, o := range opts {
		if o == s {
			return true
		}
	}
	return false
}

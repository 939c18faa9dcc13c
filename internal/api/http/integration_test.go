package http_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	api "github.com/skill-code/skillcode-backend/internal/api/http"
	"github.com/skill-code/skillcode-backend/internal/assessment"
	"github.com/skill-code/skillcode-backend/internal/attempt"
	authmw "github.com/skill-code/skillcode-backend/internal/auth/middleware"
	"github.com/skill-code/skillcode-backend/internal/db"
	"github.com/skill-code/skillcode-backend/internal/rbac"
)

// newTestEnv wires the full route table against an in-memory sqlite DB,
// mirroring cmd/gateway.
func newTestEnv(t *testing.T, name string) (chi.Router, *authmw.AuthService, *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	store := assessment.NewSQLStore(dbh, "sqlite")
	machine := attempt.NewMachine(store, store)
	authSvc := authmw.NewAuthService("test-secret", time.Hour)

	r := chi.NewRouter()
	r.Post("/mentors/signup", api.SignupHandler(dbh, authSvc, "mentor"))
	r.Post("/mentors/login", api.LoginHandler(dbh, authSvc, "mentor"))
	r.Post("/students/signup", api.SignupHandler(dbh, authSvc, "student"))
	r.Post("/students/login", api.LoginHandler(dbh, authSvc, "student"))
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.Get("/mentors/{mentorID}", api.MentorProfileHandler(dbh, store))
		pr.With(rbac.Require("assessment:create")).
			Post("/assessments", api.CreateAssessmentHandler(store))
		pr.With(rbac.Require("assessment:view")).
			Get("/assessments", api.ListAssessmentsHandler(store))
		pr.With(rbac.Require("assessment:view")).
			Get("/assessments/{assessmentID}", api.GetAssessmentHandler(store))
		pr.With(rbac.Require("question:view")).
			Get("/assessments/{assessmentID}/questions/{pos}", api.ViewQuestionHandler(machine))
		pr.With(rbac.Require("question:answer")).
			Post("/assessments/{assessmentID}/questions/{pos}", api.AnswerQuestionHandler(machine))
		pr.With(rbac.Require("response:list")).
			Get("/assessments/{assessmentID}/responses", api.ListResponsesHandler(store))
		pr.With(rbac.Require("feedback:create")).
			Post("/mentors/feedback", api.LeaveFeedbackHandler(dbh, store))
		pr.With(rbac.Require("feedback:view-own")).
			Get("/students/feedback", api.ListFeedbackHandler(store))
		pr.With(rbac.Require("grade:release")).
			Post("/mentors/grades", api.ReleaseGradesHandler(store))
		pr.With(rbac.Require("grade:view")).
			Get("/students/grades/{studentID}/{assessmentID}", api.StudentGradesHandler(dbh, store))
	})
	return r, authSvc, dbh
}

func signup(t *testing.T, r chi.Router, authSvc *authmw.AuthService, path, name, email string) (token, id string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":"pass1234"}`, name, email)
	w := request(t, r, "POST", path, "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("signup %s: status = %d, body %s", path, w.Code, w.Body.String())
	}
	token, _ = decodeMap(t, w)["access_token"].(string)
	if token == "" {
		t.Fatalf("signup %s: no access token", path)
	}
	claims, err := authSvc.Parse(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	return token, claims.Sub
}

func TestSignupAndLogin(t *testing.T) {
	r, _, _ := newTestEnv(t, "authflow")

	w := request(t, r, "POST", "/mentors/signup", "", `{"name":"Ada","email":"ada@example.test","password":"pass1234"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("signup: status = %d, body %s", w.Code, w.Body.String())
	}
	if tok, _ := decodeMap(t, w)["access_token"].(string); tok == "" {
		t.Fatalf("signup must return a token")
	}

	// duplicate email
	w = request(t, r, "POST", "/mentors/signup", "", `{"name":"Ada","email":"ada@example.test","password":"other"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: status = %d", w.Code)
	}

	// mentor signup requires a name
	w = request(t, r, "POST", "/mentors/signup", "", `{"email":"no-name@example.test","password":"pass1234"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("nameless mentor signup: status = %d", w.Code)
	}

	w = request(t, r, "POST", "/mentors/login", "", `{"email":"ada@example.test","password":"pass1234"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body.String())
	}
	w = request(t, r, "POST", "/mentors/login", "", `{"email":"ada@example.test","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status = %d", w.Code)
	}
	// mentor credentials do not work on the student login path
	w = request(t, r, "POST", "/students/login", "", `{"email":"ada@example.test","password":"pass1234"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("role-crossed login: status = %d", w.Code)
	}
}

func TestFullAssessmentLifecycle(t *testing.T) {
	r, authSvc, _ := newTestEnv(t, "lifecycle")

	mentorTok, mentorID := signup(t, r, authSvc, "/mentors/signup", "Grace", "grace@example.test")
	studentTok, studentID := signup(t, r, authSvc, "/students/signup", "", "linus@example.test")

	// --- authoring ---
	create := `{"title":"Capitals","questions":[
		{"text":"Capital of France?","options":["Paris","London","Berlin","Madrid"],"correct_answer":"Paris"},
		{"text":"Capital of Japan?","options":["Kyoto","Tokyo","Osaka","Nagoya"],"correct_answer":"Tokyo"}]}`
	w := request(t, r, "POST", "/assessments", mentorTok, create)
	if w.Code != http.StatusOK {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body.String())
	}
	asmID, _ := decodeMap(t, w)["id"].(string)
	if asmID == "" {
		t.Fatalf("create returned no id")
	}

	// students cannot author
	if w := request(t, r, "POST", "/assessments", studentTok, create); w.Code != http.StatusForbidden {
		t.Fatalf("student create: status = %d", w.Code)
	}
	// correct answer must be one of the options
	bad := `{"title":"X","questions":[{"text":"?","options":["a","b","c","d"],"correct_answer":"e"}]}`
	if w := request(t, r, "POST", "/assessments", mentorTok, bad); w.Code != http.StatusBadRequest {
		t.Fatalf("bad correct answer: status = %d", w.Code)
	}
	// exactly four options
	three := `{"title":"X","questions":[{"text":"?","options":["a","b","c"],"correct_answer":"a"}]}`
	if w := request(t, r, "POST", "/assessments", mentorTok, three); w.Code != http.StatusBadRequest {
		t.Fatalf("three options: status = %d", w.Code)
	}

	// --- catalog reads ---
	w = request(t, r, "GET", "/assessments", studentTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	list, _ := decodeMap(t, w)["assessments"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("list = %v", list)
	}
	if sm, _ := list[0].(map[string]interface{}); sm["questions_count"] != float64(2) {
		t.Fatalf("questions_count = %v", sm["questions_count"])
	}

	// student detail view must not carry answer keys
	w = request(t, r, "GET", "/assessments/"+asmID, studentTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("detail: status = %d", w.Code)
	}
	detail := decodeMap(t, w)
	qs, _ := detail["questions"].([]interface{})
	if len(qs) != 2 {
		t.Fatalf("questions = %v", qs)
	}
	q0, _ := qs[0].(map[string]interface{})
	if _, leaked := q0["correct_answer"]; leaked {
		t.Fatalf("student detail leaked answers: %v", q0)
	}

	// mentor detail view keeps them
	w = request(t, r, "GET", "/assessments/"+asmID, mentorTok, "")
	detail = decodeMap(t, w)
	qs, _ = detail["questions"].([]interface{})
	q0, _ = qs[0].(map[string]interface{})
	if q0["correct_answer"] != "Paris" {
		t.Fatalf("mentor detail missing answers: %v", q0)
	}
	questionID, _ := q0["id"].(string)

	// --- the attempt ---
	w = request(t, r, "GET", "/assessments/"+asmID+"/questions/1", studentTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("view q1: status = %d", w.Code)
	}
	w = request(t, r, "POST", "/assessments/"+asmID+"/questions/1", studentTok, `{"answer":"Paris"}`)
	body := decodeMap(t, w)
	if body["is_correct"] != true || body["next_question"] == nil {
		t.Fatalf("answer 1: %v", body)
	}
	w = request(t, r, "POST", "/assessments/"+asmID+"/questions/2", studentTok, `{"answer":"Kyoto"}`)
	body = decodeMap(t, w)
	if body["is_correct"] != false || body["correct_answer"] != "Tokyo" {
		t.Fatalf("answer 2: %v", body)
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Fatalf("expected completion message: %v", body)
	}

	// --- ledger readout (mentor only) ---
	w = request(t, r, "GET", "/assessments/"+asmID+"/responses?student_id="+studentID, mentorTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("responses: status = %d", w.Code)
	}
	events, _ := decodeMap(t, w)["responses"].([]interface{})
	if len(events) != 2 {
		t.Fatalf("expected 2 response events, got %v", events)
	}
	if w := request(t, r, "GET", "/assessments/"+asmID+"/responses?student_id="+studentID, studentTok, ""); w.Code != http.StatusForbidden {
		t.Fatalf("student reading ledger: status = %d", w.Code)
	}

	// --- feedback ---
	fb := fmt.Sprintf(`{"mentor_id":%q,"assessment_id":%q,"question_id":%q,"student_id":%q,"text":"revisit geography"}`,
		mentorID, asmID, questionID, studentID)
	if w := request(t, r, "POST", "/mentors/feedback", mentorTok, fb); w.Code != http.StatusOK {
		t.Fatalf("feedback: status = %d, body %s", w.Code, w.Body.String())
	}
	w = request(t, r, "GET", "/students/feedback?assessment_id="+asmID, studentTok, "")
	fbs, _ := decodeMap(t, w)["feedback"].([]interface{})
	if len(fbs) != 1 {
		t.Fatalf("feedback list = %v", fbs)
	}

	// --- grades ---
	grades := fmt.Sprintf(`{"assessment_id":%q,"student_grades":{%q:88.5}}`, asmID, studentID)
	if w := request(t, r, "POST", "/mentors/grades", mentorTok, grades); w.Code != http.StatusOK {
		t.Fatalf("release grades: status = %d, body %s", w.Code, w.Body.String())
	}
	w = request(t, r, "GET", "/students/grades/"+studentID+"/"+asmID, studentTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("student grades: status = %d", w.Code)
	}
	gradeBody := decodeMap(t, w)
	gs, _ := gradeBody["grades"].([]interface{})
	if len(gs) != 1 {
		t.Fatalf("grades = %v", gs)
	}
	if g0, _ := gs[0].(map[string]interface{}); g0["score"] != 88.5 {
		t.Fatalf("score = %v", g0["score"])
	}

	// --- mentor profile ---
	w = request(t, r, "GET", "/mentors/"+mentorID, studentTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("mentor profile: status = %d", w.Code)
	}
	profile := decodeMap(t, w)
	asms, _ := profile["assessments"].([]interface{})
	if profile["name"] != "Grace" || len(asms) != 1 {
		t.Fatalf("profile = %v", profile)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/skill-code/skillcode-backend/internal/api/http"
	"github.com/skill-code/skillcode-backend/internal/assessment"
	"github.com/skill-code/skillcode-backend/internal/attempt"
	auth "github.com/skill-code/skillcode-backend/internal/auth/middleware"
	"github.com/skill-code/skillcode-backend/internal/config"
	"github.com/skill-code/skillcode-backend/internal/db"
	"github.com/skill-code/skillcode-backend/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := assessment.NewSQLStore(dbh, cfg.DBDriver)
	machine := attempt.NewMachine(store, store)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Signup/login (public)
	r.Post("/mentors/signup", api.SignupHandler(dbh, authSvc, "mentor"))
	r.Post("/mentors/login", api.LoginHandler(dbh, authSvc, "mentor"))
	r.Post("/students/signup", api.SignupHandler(dbh, authSvc, "student"))
	r.Post("/students/login", api.LoginHandler(dbh, authSvc, "student"))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Any authenticated principal
		pr.Get("/mentors/{mentorID}", api.MentorProfileHandler(dbh, store))

		// Catalog
		pr.With(rbac.Require("assessment:create")).
			Post("/assessments", api.CreateAssessmentHandler(store))
		pr.With(rbac.Require("assessment:view")).
			Get("/assessments", api.ListAssessmentsHandler(store))
		pr.With(rbac.Require("assessment:view")).
			Get("/assessments/{assessmentID}", api.GetAssessmentHandler(store))

		// Question interaction (the attempt engine)
		pr.With(rbac.Require("question:view")).
			Get("/assessments/{assessmentID}/questions/{pos}", api.ViewQuestionHandler(machine))
		pr.With(rbac.Require("question:answer")).
			Post("/assessments/{assessmentID}/questions/{pos}", api.AnswerQuestionHandler(machine))

		// Downstream grading/feedback consumers
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

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

package http

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/skill-code/skillcode-backend/internal/auth/middleware"
)

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupHandler registers a principal with the given role ("mentor" or
// "student") and returns an access token, mirroring the login response.
func SignupHandler(db *sql.DB, authSvc *authmw.AuthService, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupReq
		if !decodeValid(w, r, &req) {
			return
		}
		if role == "mentor" && req.Name == "" {
			http.Error(w, "invalid request data", http.StatusBadRequest)
			return
		}

		var exists int
		err := db.QueryRowContext(r.Context(),
			`SELECT 1 FROM users WHERE email=$1`, req.Email).Scan(&exists)
		if err == nil {
			http.Error(w, "user with this email already exists", http.StatusBadRequest)
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		id := uuid.NewString()
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO users (id,name,email,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
			id, req.Name, req.Email, string(hash), role, time.Now().Unix())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		tok, err := authSvc.IssueJWT(id, role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"access_token": tok})
	}
}

// LoginHandler authenticates by email+password against the stored bcrypt hash
// and issues a JWT scoped to the expected role.
func LoginHandler(db *sql.DB, authSvc *authmw.AuthService, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if !decodeValid(w, r, &req) {
			return
		}

		var id, storedHash string
		err := db.QueryRowContext(r.Context(),
			`SELECT id, password_hash FROM users WHERE email=$1 AND role=$2`, req.Email, role).
			Scan(&id, &storedHash)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}

		tok, err := authSvc.IssueJWT(id, role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"access_token": tok})
	}
}

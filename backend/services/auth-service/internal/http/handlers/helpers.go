package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"evcast/backend/services/auth-service/internal/models"
	"evcast/backend/services/auth-service/internal/service"
)

const maxBodyBytes = 1 << 20

// Authenticator is the part of the auth service the handlers need.
type Authenticator interface {
	Signup(ctx context.Context, email, password, username string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decode(r *http.Request, dst interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"`
	Email        string `json:"email"`
	Username     string `json:"username"`
}

func newSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		TokenType:    s.Tokens.TokenType,
		ExpiresAt:    s.Tokens.ExpiresAt.UTC().Format(time.RFC3339),
		Email:        s.User.Email,
		Username:     s.User.Username,
	}
}

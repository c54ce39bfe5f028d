package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"evcast/backend/services/api-gateway/internal/clients"
)

// AuthUpstream is the auth-service surface exposed publicly.
type AuthUpstream interface {
	Signup(ctx context.Context, body []byte) (*clients.Response, error)
	Login(ctx context.Context, body []byte) (*clients.Response, error)
	Refresh(ctx context.Context, body []byte) (*clients.Response, error)
}

// AuthHandlers proxies auth-service endpoints.
type AuthHandlers struct {
	client AuthUpstream
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(client AuthUpstream, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{client: client, logger: logger}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "signup", h.client.Signup)
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "login", h.client.Login)
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "refresh", h.client.Refresh)
}

func (h *AuthHandlers) forward(w http.ResponseWriter, r *http.Request, op string, call func(context.Context, []byte) (*clients.Response, error)) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := call(r.Context(), body)
	if err != nil {
		h.logger.Error("auth proxy failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusBadGateway, "auth service unavailable")
		return
	}
	writeUpstream(w, resp)
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcast/backend/services/auth-service/internal/service"
)

// NewRefreshHandler handles POST /auth/refresh.
func NewRefreshHandler(authService Authenticator, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		RefreshToken string `json:"refresh_token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.RefreshToken) == "" {
			writeError(w, http.StatusBadRequest, "refresh_token is required")
			return
		}

		session, err := authService.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "invalid refresh token")
				return
			}
			logger.Error("refresh failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to refresh token")
			return
		}

		writeJSON(w, http.StatusOK, newSessionResponse(session))
	}
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcast/backend/services/api-gateway/internal/clients"
	"evcast/backend/services/api-gateway/internal/http/middleware"
)

// apiPrefix is stripped before forwarding: /api/vehicles -> /vehicles.
const apiPrefix = "/api"

// Forwarder sends a user-scoped request to an internal service.
type Forwarder interface {
	Name() string
	Forward(ctx context.Context, method, path string, body []byte, email string) (*clients.Response, error)
}

// ProxyHandler relays authenticated requests to one upstream.
type ProxyHandler struct {
	upstream Forwarder
	logger   *zap.Logger
}

// NewProxyHandler returns handler.
func NewProxyHandler(upstream Forwarder, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{upstream: upstream, logger: logger}
}

// ServeHTTP forwards method, path, query and body. The caller must be authenticated.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	path := strings.TrimPrefix(r.URL.EscapedPath(), apiPrefix)
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	resp, err := h.upstream.Forward(r.Context(), r.Method, path, body, email)
	if err != nil {
		h.logger.Error("proxy failed",
			zap.String("upstream", h.upstream.Name()),
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, h.upstream.Name()+" service unavailable")
		return
	}
	writeUpstream(w, resp)
}

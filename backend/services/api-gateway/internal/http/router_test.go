package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evcast/backend/libs/auth"
	"evcast/backend/services/api-gateway/internal/clients"
	"evcast/backend/services/api-gateway/internal/http/handlers"
	"evcast/backend/services/api-gateway/internal/http/middleware"
)

type gateway struct {
	handler http.Handler
	token   string
	seen    chan *http.Request
}

// newGateway runs the full gateway stack against one fake upstream playing
// auth, vehicles and scheduling.
func newGateway(t *testing.T) *gateway {
	t.Helper()
	seen := make(chan *http.Request, 8)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"upstream":"`+r.URL.Path+`"}`)
	}))
	t.Cleanup(upstream.Close)

	logger := zap.NewNop()
	httpClient := clients.NewDefaultHTTPClient(time.Second)
	tokens := auth.NewTokenService("secret", time.Hour, 2*time.Hour)
	pair, err := tokens.IssuePair("ana@example.com", "ana")
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		AuthHandlers:  handlers.NewAuthHandlers(clients.NewAuthClient(upstream.URL, httpClient), logger),
		Vehicles:      handlers.NewProxyHandler(clients.NewServiceClient("vehicles", upstream.URL, httpClient), logger),
		Scheduling:    handlers.NewProxyHandler(clients.NewServiceClient("scheduling", upstream.URL, httpClient), logger),
		HealthHandler: handlers.NewHealthHandler(),
	}, middleware.AuthMiddleware(tokens))

	server := NewServer(":0", router, logger, middleware.RecoveryMiddleware(logger), middleware.LoggingMiddleware(logger))
	return &gateway{handler: server.Handler(), token: pair.AccessToken, seen: seen}
}

func (g *gateway) do(method, target, body string, withToken bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if withToken {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	g := newGateway(t)

	rec := g.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, op := range []string{"signup", "login", "refresh"} {
		rec := g.do(http.MethodPost, "/api/auth/"+op, `{}`, false)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"upstream":"/auth/`+op+`"}`, rec.Body.String())
		<-g.seen
	}

	rec = g.do(http.MethodGet, "/api/auth/login", "", false)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthenticatedRoutes(t *testing.T) {
	g := newGateway(t)

	cases := []struct {
		method, target, upstreamPath string
	}{
		{http.MethodGet, "/api/vehicles", "/vehicles"},
		{http.MethodPost, "/api/vehicles/voice", "/vehicles/voice"},
		{http.MethodDelete, "/api/vehicles/v-1", "/vehicles/v-1"},
		{http.MethodPost, "/api/estimates/duration", "/estimates/duration"},
		{http.MethodGet, "/api/history?vehicle_model=Tesla", "/history"},
		{http.MethodPost, "/api/schedule/optimize", "/schedule/optimize"},
		{http.MethodPost, "/api/schedule/bookings/b-1/cancel", "/schedule/bookings/b-1/cancel"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := g.do(tc.method, tc.target, "", false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = g.do(tc.method, tc.target, `{}`, true)
			require.Equal(t, http.StatusOK, rec.Code)
			req := <-g.seen
			assert.Equal(t, tc.method, req.Method)
			assert.Equal(t, tc.upstreamPath, req.URL.Path)
			assert.Equal(t, "ana@example.com", req.Header.Get(clients.UserEmailHeader))
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	g := newGateway(t)
	assert.Equal(t, http.StatusNotFound, g.do(http.MethodGet, "/api/stations", "", true).Code)
}

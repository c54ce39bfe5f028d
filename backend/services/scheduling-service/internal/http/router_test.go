package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"evcast/backend/services/scheduling-service/internal/http/handlers"
)

func TestRouterMethodsAndHealth(t *testing.T) {
	router := NewRouter(Routes{
		Bookings: handlers.NewBookingsHandler(nil, zap.NewNop()),
		Health:   handlers.NewHealthHandler(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/schedule/bookings", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/bookings", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/schedule/optimize", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

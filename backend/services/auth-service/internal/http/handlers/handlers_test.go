package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evcast/backend/libs/auth"
	"evcast/backend/services/auth-service/internal/models"
	"evcast/backend/services/auth-service/internal/service"
)

type fakeAuth struct {
	signupErr  error
	loginErr   error
	refreshErr error
}

func (f *fakeAuth) Signup(_ context.Context, email, _, username string) (*models.User, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.User{ID: 7, Email: email, Username: username}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*service.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return session(email), nil
}

func (f *fakeAuth) Refresh(context.Context, string) (*service.Session, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return session("ana@example.com"), nil
}

func session(email string) *service.Session {
	return &service.Session{
		User: &models.User{ID: 7, Email: email, Username: "ana"},
		Tokens: &auth.Pair{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			ExpiresAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSignupHandler(t *testing.T) {
	logger := zap.NewNop()

	rec := post(t, NewSignupHandler(&fakeAuth{}, logger), `{"email":"ana@example.com","password":"parola1","username":"ana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ana", body["username"])
	assert.EqualValues(t, 7, body["id"])

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid", fmt.Errorf("%w: short", service.ErrInvalidInput), http.StatusBadRequest},
		{"taken", service.ErrEmailInUse, http.StatusConflict},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, NewSignupHandler(&fakeAuth{signupErr: tc.err}, logger), `{"email":"a@b.c"}`)
			assert.Equal(t, tc.code, rec.Code)
		})
	}

	rec = post(t, NewSignupHandler(&fakeAuth{}, logger), `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	logger := zap.NewNop()

	rec := post(t, NewLoginHandler(&fakeAuth{}, logger), `{"email":"ana@example.com","password":"parola1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "access", body.AccessToken)
	assert.Equal(t, "refresh", body.RefreshToken)
	assert.Equal(t, "2024-01-01T12:00:00Z", body.ExpiresAt)

	rec = post(t, NewLoginHandler(&fakeAuth{}, logger), `{"email":"ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, NewLoginHandler(&fakeAuth{loginErr: service.ErrInvalidCredentials}, logger), `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshHandler(t *testing.T) {
	logger := zap.NewNop()

	rec := post(t, NewRefreshHandler(&fakeAuth{}, logger), `{"refresh_token":"refresh"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(t, NewRefreshHandler(&fakeAuth{}, logger), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, NewRefreshHandler(&fakeAuth{refreshErr: service.ErrInvalidToken}, logger), `{"refresh_token":"old"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

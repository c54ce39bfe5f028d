package evclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway issues "access-N" tokens and rejects every token but the latest.
type fakeGateway struct {
	mu        sync.Mutex
	issued    int
	refreshes int
	// denyBody makes expired calls answer 403 with a "Permission denied" body instead of 401.
	denyBody    bool
	rejectAll   bool
	lastBooking map[string]interface{}
}

func (g *fakeGateway) current() string {
	return "access-" + string(rune('0'+g.issued))
}

func (g *fakeGateway) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	session := func(w http.ResponseWriter) {
		g.issued++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  g.current(),
			"refresh_token": "refresh",
			"token_type":    "Bearer",
			"expires_at":    "2024-01-01T12:00:00Z",
			"email":         "ana@example.com",
		})
	}
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		session(w)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["refresh_token"] != "refresh" {
			http.Error(w, `{"error":"invalid refresh token"}`, http.StatusUnauthorized)
			return
		}
		g.refreshes++
		session(w)
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.rejectAll || r.Header.Get("Authorization") != "Bearer "+g.current() {
			if g.denyBody {
				http.Error(w, `{"error":"Permission denied for table scheduled_charging"}`, http.StatusForbidden)
				return
			}
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/schedule/bookings":
			if r.Method == http.MethodPost {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&g.lastBooking))
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":"b-1","hour":22,"status":"programata","location":"Houston"}`))
				return
			}
			assert.Equal(t, "Tesla Model 3", r.URL.Query().Get("vehicle_model"))
			_, _ = w.Write([]byte(`{"bookings":[{"id":"b-1","hour":7}]}`))
		case "/api/schedule/bookings/b-1/cancel":
			_, _ = w.Write([]byte(`{"id":"b-1","status":"anulata"}`))
		case "/api/schedule/optimize":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"booking already exists for this slot"}`))
		case "/api/vehicles/voice/command":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(map[string]string{"transcript": body["transcript"], "intent": "cost_estimate", "path": "/estimates/cost"})
		case "/api/vehicles/voice/estimate":
			_, _ = w.Write([]byte(`{"fields":{"transcript":"rata 7","charging_rate_kw":7},"missing":["energy_kwh"]}`))
		case "/api/vehicles/voice":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"draft is incomplete","result":{"draft":{"transcript":"tesla"},"missing":["battery_kwh"]}}`))
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func newTestClient(t *testing.T, g *fakeGateway) *Client {
	t.Helper()
	srv := httptest.NewServer(g.handler(t))
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func TestAuthenticatedCallRequiresLogin(t *testing.T) {
	c := newTestClient(t, &fakeGateway{})
	_, err := c.Bookings(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestScheduleCalls(t *testing.T) {
	g := &fakeGateway{}
	c := newTestClient(t, g)
	ctx := context.Background()

	s, err := c.Login(ctx, "ana@example.com", "parola1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", s.AccessToken)

	b, err := c.Schedule(ctx, ScheduleRequest{VehicleModel: "Tesla Model 3", Date: "2024-01-02", Hour: 22, Location: "Houston"})
	require.NoError(t, err)
	assert.Equal(t, "22:00", b.TimeSlot())
	assert.Equal(t, StatusScheduled, b.Status)
	assert.EqualValues(t, 22, g.lastBooking["hour"])

	list, err := c.Bookings(ctx, "Tesla Model 3")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "07:00", list[0].TimeSlot())

	b, err = c.Cancel(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)

	_, err = c.Optimize(ctx, "Tesla Model 3")
	assert.Equal(t, http.StatusConflict, StatusCode(err))
	assert.ErrorContains(t, err, "booking already exists")
	assert.False(t, IsTokenExpired(err))
	assert.Zero(t, g.refreshes)
}

func TestRefreshAndRetryOnce(t *testing.T) {
	for _, denyBody := range []bool{false, true} {
		g := &fakeGateway{denyBody: denyBody}
		c := newTestClient(t, g)
		ctx := context.Background()

		_, err := c.Login(ctx, "ana@example.com", "parola1")
		require.NoError(t, err)

		// Expire the held token server-side.
		g.mu.Lock()
		g.issued++
		g.mu.Unlock()

		list, err := c.Bookings(ctx, "Tesla Model 3")
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, 1, g.refreshes)

		s, ok := c.Session()
		require.True(t, ok)
		assert.Equal(t, "access-3", s.AccessToken)
	}
}

func TestRetryHappensOnlyOnce(t *testing.T) {
	g := &fakeGateway{rejectAll: true}
	c := newTestClient(t, g)
	ctx := context.Background()

	_, err := c.Login(ctx, "ana@example.com", "parola1")
	require.NoError(t, err)

	_, err = c.Costs(ctx)
	require.Error(t, err)
	assert.True(t, IsTokenExpired(err))
	assert.Equal(t, 1, g.refreshes)
}

func TestParseVoiceIncomplete(t *testing.T) {
	c := newTestClient(t, &fakeGateway{})
	ctx := context.Background()
	_, err := c.Login(ctx, "ana@example.com", "parola1")
	require.NoError(t, err)

	res, err := c.ParseVoice(ctx, "tesla", true)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
	require.NotNil(t, res)
	assert.Equal(t, []string{"battery_kwh"}, res.Missing)
	assert.Equal(t, "tesla", res.Draft.Transcript)
}

func TestIsTokenExpired(t *testing.T) {
	assert.True(t, IsTokenExpired(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsTokenExpired(&APIError{StatusCode: http.StatusForbidden, Message: "Permission denied"}))
	assert.False(t, IsTokenExpired(&APIError{StatusCode: http.StatusForbidden, Message: "forbidden"}))
	assert.False(t, IsTokenExpired(context.Canceled))
}

func TestVoiceCommandAndDictation(t *testing.T) {
	c := newTestClient(t, &fakeGateway{})
	ctx := context.Background()
	_, err := c.Login(ctx, "ana@example.com", "parola1")
	require.NoError(t, err)

	cmd, err := c.VoiceCommand(ctx, "deschide costul de incarcare")
	require.NoError(t, err)
	assert.Equal(t, IntentCostEstimate, cmd.Intent)
	assert.Equal(t, "deschide costul de incarcare", cmd.Transcript)

	d, err := c.DictateEstimate(ctx, "rata 7")
	require.NoError(t, err)
	require.NotNil(t, d.Fields.RateKW)
	assert.Equal(t, 7.0, *d.Fields.RateKW)
	assert.Nil(t, d.Fields.EnergyKWh)
	assert.Equal(t, []string{"energy_kwh"}, d.Missing)
}

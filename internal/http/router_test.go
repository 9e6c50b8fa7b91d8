package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lunatwin-backend/internal/data/repos"
	"github.com/yungbote/lunatwin-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/lunatwin-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lunatwin-backend/internal/http/middleware"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/realtime"
	"github.com/yungbote/lunatwin-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.MustNewMetrics(prometheus.NewRegistry())
	hub := realtime.NewSSEHub(log)

	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)

	authService := services.NewAuthService(db, log, userRepo, tokenRepo, "router-secret", 15*time.Minute, time.Hour)
	userService := services.NewUserService(db, log, userRepo)
	notifier := services.NewTwinNotifier(&services.HubEmitter{Hub: hub, Metrics: metrics})
	twinService := services.NewTwinService(log, notifier, metrics)
	simService, err := services.NewSimulationService(log, twinService, metrics, 16)
	require.NoError(t, err)
	avatarService, err := services.NewAvatarService(log, twinService, metrics, 16)
	require.NoError(t, err)
	chatService := services.NewChatService(log, twinService, notifier, metrics, 0)

	return NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthHandler:     httpH.NewAuthHandler(authService, twinService, chatService),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, authService),
		UserHandler:     httpH.NewUserHandler(userService),
		TwinHandler:     httpH.NewTwinHandler(twinService, simService, avatarService),
		ChatHandler:     httpH.NewChatHandler(chatService),
		RealtimeHandler: httpH.NewRealtimeHandler(log, hub),
		HealthHandler:   httpH.NewHealthHandler(),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

func login(t *testing.T, r *gin.Engine) services.TokenPair {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/register", "", map[string]string{
		"email": "luna@example.com", "password": "s3cret-pass", "first_name": "Luna",
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, r, http.MethodPost, "/api/login", "", map[string]string{
		"email": "luna@example.com", "password": "s3cret-pass",
	})
	expectStatus(t, rec, http.StatusOK)
	return decode[services.TokenPair](t, rec)
}

func TestPublicRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/healthcheck", "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, r, http.MethodGet, "/api/personas", "", nil)
	expectStatus(t, rec, http.StatusOK)
	personas := decode[struct {
		Personas []struct {
			ID string `json:"id"`
		} `json:"personas"`
	}](t, rec)
	require.Len(t, personas.Personas, 6)
	assert.Equal(t, "balanced-bloom", personas.Personas[0].ID)

	rec = do(t, r, http.MethodGet, "/api/demo/insulin-resistant", "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, r, http.MethodGet, "/api/demo/nope", "", nil)
	expectStatus(t, rec, http.StatusNotFound)
	assert.Equal(t, "unknown_persona", decode[errorBody](t, rec).Error.Code)

	rec = do(t, r, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/me", "/api/session", "/api/twin", "/api/chat/messages"} {
		rec := do(t, r, http.MethodGet, path, "", nil)
		expectStatus(t, rec, http.StatusUnauthorized)
		assert.Equal(t, "unauthorized", decode[errorBody](t, rec).Error.Code, path)
	}

	rec := do(t, r, http.MethodGet, "/api/me", "not-a-jwt", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestTwinLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	tokens := login(t, r)
	tok := tokens.AccessToken

	rec := do(t, r, http.MethodGet, "/api/session", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, services.NextCreateTwin, decode[services.Session](t, rec).Next)

	rec = do(t, r, http.MethodGet, "/api/twin", tok, nil)
	expectStatus(t, rec, http.StatusConflict)
	assert.Equal(t, "twin_required", decode[errorBody](t, rec).Error.Code)

	rec = do(t, r, http.MethodPost, "/api/twin", tok, map[string]any{
		"basic_info": map[string]any{"age_range": "unknown", "pcos_duration": "1-2 years"},
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, r, http.MethodPost, "/api/twin", tok, map[string]any{
		"basic_info": map[string]any{"age_range": "25-34", "pcos_duration": "1-2 years"},
	})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[services.TwinView](t, rec)
	assert.EqualValues(t, "hormone-reset", created.Twin.Persona)
	assert.EqualValues(t, 65, created.Twin.Indicators.HormoneBalance)

	rec = do(t, r, http.MethodGet, "/api/session", tok, nil)
	assert.Equal(t, services.NextDashboard, decode[services.Session](t, rec).Next)

	rec = do(t, r, http.MethodPatch, "/api/twin/lifestyle", tok, map[string]any{
		"sleep_hours": 8, "stress_level": 20, "activity_level": 80,
		"diet_pattern": 80, "water_intake": 8, "screen_time": 2,
	})
	expectStatus(t, rec, http.StatusOK)
	assert.EqualValues(t, "balanced-bloom", decode[services.TwinView](t, rec).Twin.Persona)

	rec = do(t, r, http.MethodGet, "/api/twin/history", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	hist := decode[struct {
		History []json.RawMessage `json:"history"`
		Trend   []json.RawMessage `json:"trend"`
	}](t, rec)
	assert.Len(t, hist.History, 7)
	assert.Len(t, hist.Trend, 7)

	rec = do(t, r, http.MethodPost, "/api/simulate", tok, map[string]any{"days": 10})
	expectStatus(t, rec, http.StatusBadRequest)
	rec = do(t, r, http.MethodPost, "/api/simulate", tok, map[string]any{"days": 30, "lifestyle": map[string]any{"stress_level": 90}})
	expectStatus(t, rec, http.StatusOK)
	sim := decode[services.SimulationResult](t, rec)
	assert.EqualValues(t, 30, sim.Days)
	assert.EqualValues(t, 90, sim.Lifestyle.StressLevel)

	rec = do(t, r, http.MethodGet, "/api/twin/avatar.png", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = do(t, r, http.MethodPost, "/api/chat/messages", tok, map[string]string{"question": "How do I improve?"})
	expectStatus(t, rec, http.StatusCreated)
	ex := decode[services.ChatExchange](t, rec)
	assert.EqualValues(t, "improve", ex.Answer.Topic)
	rec = do(t, r, http.MethodGet, "/api/chat/messages", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	msgs := decode[struct {
		Messages []json.RawMessage `json:"messages"`
	}](t, rec)
	assert.Len(t, msgs.Messages, 3)

	rec = do(t, r, http.MethodPost, "/api/logout", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = do(t, r, http.MethodGet, "/api/session", tok, nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	relog := do(t, r, http.MethodPost, "/api/login", "", map[string]string{
		"email": "luna@example.com", "password": "s3cret-pass",
	})
	expectStatus(t, relog, http.StatusOK)
	fresh := decode[services.TokenPair](t, relog).AccessToken
	rec = do(t, r, http.MethodGet, "/api/twin", fresh, nil)
	expectStatus(t, rec, http.StatusConflict)
}

func TestRefreshIsPublicAndRotates(t *testing.T) {
	r := newTestRouter(t)
	tokens := login(t, r)

	rec := do(t, r, http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	expectStatus(t, rec, http.StatusOK)
	rotated := decode[services.TokenPair](t, rec)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken, "refresh token was not rotated")

	rec = do(t, r, http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = do(t, r, http.MethodGet, "/api/me", rotated.AccessToken, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestRegisterConflict(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	rec := do(t, r, http.MethodPost, "/api/register", "", map[string]string{
		"email": "LUNA@example.com", "password": "other",
	})
	expectStatus(t, rec, http.StatusConflict)
	assert.Equal(t, "email_taken", decode[errorBody](t, rec).Error.Code)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/ctxutil"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
	"github.com/yungbote/lunatwin-backend/internal/services"
)

type stubAuth struct {
	userID uuid.UUID
	valid  string
	seen   []string
}

func (s *stubAuth) RegisterUser(context.Context, *types.User) error { return nil }
func (s *stubAuth) LoginUser(context.Context, string, string) (*services.TokenPair, error) {
	return nil, nil
}
func (s *stubAuth) RefreshUser(context.Context, string) (*services.TokenPair, error) {
	return nil, nil
}
func (s *stubAuth) LogoutUser(context.Context) error { return nil }
func (s *stubAuth) GetAccessTTL() time.Duration   { return time.Minute }

func (s *stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	s.seen = append(s.seen, token)
	if token != s.valid {
		return ctx, apierr.Unauthorized("invalid_token", services.ErrInvalidToken)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, UserID: s.userID}), nil
}

func newAuthRouter(t *testing.T, auth services.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.NewNop(), auth).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})
	return r
}

func TestRequireAuthAcceptsBearerAndQueryToken(t *testing.T) {
	userID := uuid.New()
	auth := &stubAuth{userID: userID, valid: "good"}
	r := newAuthRouter(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami?token=good", nil)
	req.Header.Set("Authorization", "Bearer ignored")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", auth.seen[len(auth.seen)-1], "query token should win over header")
}

func TestRequireAuthRejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		user   uuid.UUID
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic good", user: uuid.New(), want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", user: uuid.New(), want: http.StatusUnauthorized},
		{name: "no user", header: "Bearer good", user: uuid.Nil, want: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(t, &stubAuth{userID: tc.user, valid: "good"})
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

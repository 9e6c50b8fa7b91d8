package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lunatwin-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lunatwin-backend/internal/http/middleware"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	TwinHandler     *httpH.TwinHandler
	ChatHandler     *httpH.ChatHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public); refresh is public because the access token may already be expired.
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Catalog + demo (public)
		if cfg.TwinHandler != nil {
			api.GET("/personas", cfg.TwinHandler.Personas)
			api.GET("/demo/:persona", cfg.TwinHandler.Demo)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/user/name", cfg.UserHandler.ChangeName)
		}

		// Twin
		if cfg.TwinHandler != nil {
			protected.GET("/session", cfg.TwinHandler.Session)
			protected.POST("/twin", cfg.TwinHandler.Create)
			protected.GET("/twin", cfg.TwinHandler.Get)
			protected.PATCH("/twin/lifestyle", cfg.TwinHandler.UpdateLifestyle)
			protected.GET("/twin/history", cfg.TwinHandler.History)
			protected.GET("/twin/avatar.png", cfg.TwinHandler.Avatar)
			protected.POST("/simulate", cfg.TwinHandler.Simulate)
		}

		// Chat
		if cfg.ChatHandler != nil {
			protected.GET("/chat/messages", cfg.ChatHandler.ListMessages)
			protected.POST("/chat/messages", cfg.ChatHandler.Ask)
			protected.GET("/chat/suggestions", cfg.ChatHandler.Suggestions)
		}
	}

	return r
}

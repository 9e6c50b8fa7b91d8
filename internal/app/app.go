package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yungbote/lunatwin-backend/internal/data/db"
	"github.com/yungbote/lunatwin-backend/internal/data/repos"
	apphttp "github.com/yungbote/lunatwin-backend/internal/http"
	httpH "github.com/yungbote/lunatwin-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lunatwin-backend/internal/http/middleware"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
	"github.com/yungbote/lunatwin-backend/internal/realtime"
	"github.com/yungbote/lunatwin-backend/internal/realtime/bus"
	"github.com/yungbote/lunatwin-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Twin       services.TwinService
	Simulation services.SimulationService
	Chat       services.ChatService
	Avatar     services.AvatarService
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Metrics  *observability.Metrics
	Hub      *realtime.SSEHub
	Bus      bus.Bus
	Services Services
	Server   *apphttp.Server

	shutdownOtel func(context.Context) error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)

	dbService, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	theDB := dbService.DB()

	metrics := observability.MustNewMetrics(prometheus.NewRegistry())
	hub := realtime.NewSSEHub(log)

	var (
		emitter  services.SSEEmitter = &services.HubEmitter{Hub: hub, Metrics: metrics}
		eventBus bus.Bus
	)
	if cfg.Redis.Addr != "" {
		eventBus, err = bus.NewRedisBus(ctx, log, cfg.Redis)
		if err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
		emitter = &services.RedisEmitter{Bus: eventBus, Log: log, Metrics: metrics}
	}

	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)

	var twinOpts []twin.Option
	if cfg.HistorySeed != 0 {
		twinOpts = append(twinOpts, twin.WithRand(newLockedRand(cfg.HistorySeed)))
	}

	notifier := services.NewTwinNotifier(emitter)
	svcs := Services{
		Auth: services.NewAuthService(theDB, log, userRepo, userTokenRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User: services.NewUserService(theDB, log, userRepo),
		Twin: services.NewTwinService(log, notifier, metrics, twinOpts...),
	}
	svcs.Chat = services.NewChatService(log, svcs.Twin, notifier, metrics, cfg.ChatReplyDelay)
	if svcs.Simulation, err = services.NewSimulationService(log, svcs.Twin, metrics, cfg.ProjectionCacheSize); err != nil {
		_ = dbService.Close()
		return nil, err
	}
	if svcs.Avatar, err = services.NewAvatarService(log, svcs.Twin, metrics, cfg.AvatarCacheSize); err != nil {
		_ = dbService.Close()
		return nil, err
	}

	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     otelServiceName(cfg.Otel),
		CORSOrigins:     cfg.CORSOrigins,
		AuthHandler:     httpH.NewAuthHandler(svcs.Auth, svcs.Twin, svcs.Chat),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, svcs.Auth),
		UserHandler:     httpH.NewUserHandler(svcs.User),
		TwinHandler:     httpH.NewTwinHandler(svcs.Twin, svcs.Simulation, svcs.Avatar),
		ChatHandler:     httpH.NewChatHandler(svcs.Chat),
		RealtimeHandler: httpH.NewRealtimeHandler(log, hub),
		HealthHandler:   httpH.NewHealthHandler(),
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           dbService,
		Metrics:      metrics,
		Hub:          hub,
		Bus:          eventBus,
		Services:     svcs,
		Server:       server,
		shutdownOtel: shutdownOtel,
	}, nil
}

// StartForwarder rebroadcasts bus traffic to the local hub. It is a no-op without a bus.
func (a *App) StartForwarder(ctx context.Context) error {
	if a == nil || a.Bus == nil {
		return nil
	}
	return a.Bus.StartForwarder(ctx, a.Hub.Broadcast)
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("server listening", "port", a.Cfg.Port)
	return a.Server.Run(":" + a.Cfg.Port)
}

// Shutdown drains HTTP first so no handler publishes into a closed bus.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.Server != nil {
		keep(a.Server.Shutdown(ctx))
	}
	if a.Bus != nil {
		keep(a.Bus.Close())
	}
	if a.DB != nil {
		keep(a.DB.Close())
	}
	if a.shutdownOtel != nil {
		keep(a.shutdownOtel(ctx))
	}
	a.Log.Sync()
	return firstErr
}

func otelServiceName(cfg observability.OtelConfig) string {
	if !cfg.Enabled {
		return ""
	}
	return cfg.ServiceName
}

// lockedRand lets every per-user store share one seeded source.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

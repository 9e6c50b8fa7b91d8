package app

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/lunatwin-backend/internal/data/db"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/realtime/bus"
)

type Config struct {
	Port    string
	LogMode string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DB db.Config

	// Redis is optional; an empty Addr keeps realtime events on the in-process hub.
	Redis bus.Config

	ChatReplyDelay      time.Duration
	ProjectionCacheSize int
	AvatarCacheSize     int
	HistorySeed         uint64
	CORSOrigins         []string

	Otel observability.OtelConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("JWT_SECRET_KEY", "defaultsecret")
	v.SetDefault("ACCESS_TOKEN_TTL", 3600)
	v.SetDefault("REFRESH_TOKEN_TTL", 86400)

	v.SetDefault("DB_DRIVER", db.DriverSQLite)
	v.SetDefault("SQLITE_DSN", "file::memory:?cache=shared")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_NAME", "lunatwin")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_CHANNEL", bus.DefaultChannel)

	v.SetDefault("CHAT_REPLY_DELAY_MS", 0)
	v.SetDefault("PROJECTION_CACHE_SIZE", 512)
	v.SetDefault("AVATAR_CACHE_SIZE", 256)
	v.SetDefault("HISTORY_SEED", 0)
	v.SetDefault("CORS_ORIGINS", "")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "lunatwin-backend")
	v.SetDefault("OTEL_ENVIRONMENT", "development")
	v.SetDefault("OTEL_SERVICE_VERSION", "dev")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_HEADERS", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

// LoadConfig reads defaults, then an optional lunatwin.yaml, then the environment.
// Environment variables win over the file.
func LoadConfig(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("lunatwin")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "/etc/lunatwin"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}
	v.AutomaticEnv()

	return Config{
		Port:            v.GetString("PORT"),
		LogMode:         v.GetString("LOG_MODE"),
		JWTSecretKey:    v.GetString("JWT_SECRET_KEY"),
		AccessTokenTTL:  time.Duration(v.GetInt("ACCESS_TOKEN_TTL")) * time.Second,
		RefreshTokenTTL: time.Duration(v.GetInt("REFRESH_TOKEN_TTL")) * time.Second,
		DB: db.Config{
			Driver:           strings.ToLower(v.GetString("DB_DRIVER")),
			SQLiteDSN:        v.GetString("SQLITE_DSN"),
			PostgresHost:     v.GetString("POSTGRES_HOST"),
			PostgresPort:     v.GetString("POSTGRES_PORT"),
			PostgresUser:     v.GetString("POSTGRES_USER"),
			PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
			PostgresName:     v.GetString("POSTGRES_NAME"),
		},
		Redis: bus.Config{
			Addr:    v.GetString("REDIS_ADDR"),
			Channel: v.GetString("REDIS_CHANNEL"),
		},
		ChatReplyDelay:      time.Duration(v.GetInt("CHAT_REPLY_DELAY_MS")) * time.Millisecond,
		ProjectionCacheSize: v.GetInt("PROJECTION_CACHE_SIZE"),
		AvatarCacheSize:     v.GetInt("AVATAR_CACHE_SIZE"),
		HistorySeed:         v.GetUint64("HISTORY_SEED"),
		CORSOrigins:         splitList(v.GetString("CORS_ORIGINS")),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
			Version:     v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package services

import (
	"context"
	"time"

	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
	"github.com/yungbote/lunatwin-backend/internal/realtime"
	"github.com/yungbote/lunatwin-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

// HubEmitter delivers straight to the local hub.
type HubEmitter struct {
	Hub     *realtime.SSEHub
	Metrics *observability.Metrics
}

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
	e.Metrics.RealtimePublished(string(msg.Event))
}

const defaultPublishTimeout = 2 * time.Second

// RedisEmitter publishes on the bus; the forwarder rebroadcasts to every instance's hub.
// Emit runs while the twin store holds its commit lock, so every publish is bounded by Timeout.
type RedisEmitter struct {
	Bus     bus.Bus
	Log     *logger.Logger
	Metrics *observability.Metrics
	// Timeout bounds each publish; zero means 2s.
	Timeout time.Duration
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Bus == nil {
		return
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := e.Bus.Publish(ctx, msg); err != nil {
		if e.Log != nil {
			e.Log.Warn("publish realtime event failed", "event", msg.Event, "error", err)
		}
		return
	}
	e.Metrics.RealtimePublished(string(msg.Event))
}

package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
	"github.com/yungbote/lunatwin-backend/internal/realtime"
)

// stalledBus never completes a publish on its own.
type stalledBus struct {
	calls    atomic.Int32
	deadline atomic.Bool
}

func (b *stalledBus) Publish(ctx context.Context, _ realtime.SSEMessage) error {
	b.calls.Add(1)
	_, ok := ctx.Deadline()
	b.deadline.Store(ok)
	<-ctx.Done()
	return ctx.Err()
}

func (b *stalledBus) StartForwarder(context.Context, func(realtime.SSEMessage)) error { return nil }
func (b *stalledBus) Close() error                                                    { return nil }

func TestRedisEmitterBoundsPublish(t *testing.T) {
	b := &stalledBus{}
	e := &RedisEmitter{Bus: b, Log: logger.NewNop(), Timeout: 20 * time.Millisecond}

	start := time.Now()
	e.Emit(context.Background(), realtime.SSEMessage{Channel: "user:x", Event: realtime.SSEEventTwinUpdated})
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, b.deadline.Load(), "publish must carry a deadline")
}

func TestStalledBusDoesNotBlockTwinWrites(t *testing.T) {
	b := &stalledBus{}
	emit := &RedisEmitter{Bus: b, Log: logger.NewNop(), Timeout: 20 * time.Millisecond}
	ts := NewTwinService(logger.NewNop(), NewTwinNotifier(emit), nil, twin.WithRand(lowRand{}))
	ctx := userCtx(uuid.New())

	done := make(chan error, 1)
	go func() {
		if _, err := ts.Create(ctx, validInfo(), types.DefaultLifestyle()); err != nil {
			done <- err
			return
		}
		_, err := ts.UpdateLifestyle(ctx, types.LifestylePatch{SleepHours: fptr(8)})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "twin writes stalled behind the bus")
	}
	assert.Equal(t, int32(2), b.calls.Load())
}

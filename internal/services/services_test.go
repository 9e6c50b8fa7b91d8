package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/ctxutil"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
	"github.com/yungbote/lunatwin-backend/internal/realtime"
)

func userCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, len(e.msgs))
	for i, m := range e.msgs {
		out[i] = m.Event
	}
	return out
}

// lowRand always draws 0, the most negative jitter.
type lowRand struct{}

func (lowRand) IntN(int) int { return 0 }

func newTwinService(t *testing.T, emit SSEEmitter) TwinService {
	t.Helper()
	return NewTwinService(logger.NewNop(), NewTwinNotifier(emit), nil, twin.WithRand(lowRand{}))
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	ae, ok := apierr.As(err)
	require.True(t, ok, "expected apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, ae.Status)
	require.Equal(t, code, ae.Code)
}

package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/realtime"
)

// TwinNotifier turns store commits and chat activity into realtime events on the user's channel.
type TwinNotifier interface {
	Observer() twin.Observer
	SessionEnded(userID uuid.UUID)
	ChatMessage(userID uuid.UUID, msg *types.ChatMessage)
}

type twinNotifier struct {
	emit SSEEmitter
}

func NewTwinNotifier(emit SSEEmitter) TwinNotifier {
	return &twinNotifier{emit: emit}
}

func (n *twinNotifier) Observer() twin.Observer {
	return func(snap twin.Snapshot) {
		userID := snap.Twin.UserID
		if n.emit == nil || userID == uuid.Nil {
			return
		}
		event := realtime.SSEEventTwinUpdated
		if snap.Kind == twin.EventCreated {
			event = realtime.SSEEventTwinCreated
		}
		n.emit.Emit(context.Background(), realtime.SSEMessage{
			Channel: realtime.UserChannel(userID),
			Event:   event,
			Data:    NewTwinView(snap),
		})
	}
}

func (n *twinNotifier) SessionEnded(userID uuid.UUID) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventSessionEnded,
	})
}

func (n *twinNotifier) ChatMessage(userID uuid.UUID, msg *types.ChatMessage) {
	if n == nil || n.emit == nil || userID == uuid.Nil || msg == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventChatMessageCreated,
		Data:    map[string]any{"message": msg},
	})
}

package realtime

type SSEEvent string

const (
	SSEEventTwinCreated        SSEEvent = "TwinCreated"
	SSEEventTwinUpdated        SSEEvent = "TwinUpdated"
	SSEEventChatMessageCreated SSEEvent = "ChatMessageCreated"
	SSEEventSessionEnded       SSEEvent = "SessionEnded"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

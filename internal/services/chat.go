package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	domainchat "github.com/yungbote/lunatwin-backend/internal/domain/chat"
	"github.com/yungbote/lunatwin-backend/internal/modules/chat"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

var ErrEmptyQuestion = errors.New("question is empty")

const (
	maxQuestionLength  = 2000
	maxTranscriptItems = 200
)

// ChatExchange is the pair of messages one question produces.
type ChatExchange struct {
	Question *types.ChatMessage `json:"question"`
	Answer   *types.ChatMessage `json:"answer"`
}

type ChatService interface {
	Messages(ctx context.Context) ([]*types.ChatMessage, error)
	Ask(ctx context.Context, question string) (*ChatExchange, error)
	Suggestions() []string
	Reset(userID uuid.UUID)
}

type chatService struct {
	log      *logger.Logger
	twins    TwinService
	notifier TwinNotifier
	metrics  *observability.Metrics
	delay    time.Duration
	now      func() time.Time

	mu          sync.Mutex
	transcripts map[uuid.UUID][]*types.ChatMessage
}

// NewChatService answers with the scripted responder after delay, which imitates typing.
func NewChatService(log *logger.Logger, twins TwinService, notifier TwinNotifier, metrics *observability.Metrics, delay time.Duration) ChatService {
	return &chatService{
		log:         log.With("service", "ChatService"),
		twins:       twins,
		notifier:    notifier,
		metrics:     metrics,
		delay:       delay,
		now:         time.Now,
		transcripts: map[uuid.UUID][]*types.ChatMessage{},
	}
}

// Messages returns the transcript, opening it with the welcome message on first use.
func (cs *chatService) Messages(ctx context.Context) ([]*types.ChatMessage, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]*types.ChatMessage(nil), cs.transcriptLocked(userID)...), nil
}

func (cs *chatService) Ask(ctx context.Context, question string) (*ChatExchange, error) {
	ctx, span := observability.StartSpan(ctx, "chat.ask")
	defer span.End()

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apierr.BadRequest("empty_question", ErrEmptyQuestion)
	}
	question = truncateUTF8(question, maxQuestionLength)

	var current *types.Twin
	view, err := cs.twins.Get(ctx)
	switch {
	case err == nil:
		current = &view.Twin
	case errors.Is(err, ErrTwinNotFound):
	default:
		return nil, err
	}

	asked := cs.newMessage(userID, domainchat.RoleUser, question, "")
	cs.append(userID, asked)

	if cs.delay > 0 {
		t := time.NewTimer(cs.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	personaName := ""
	if current != nil {
		personaName = twin.DisplayName(current.Persona)
	}
	reply := chat.Respond(question, current, personaName)
	span.SetAttributes(attribute.String("chat.topic", string(reply.Topic)))
	cs.metrics.ChatReply(string(reply.Topic))

	answer := cs.newMessage(userID, domainchat.RoleAssistant, reply.Text, string(reply.Topic))
	cs.append(userID, answer)
	if cs.notifier != nil {
		cs.notifier.ChatMessage(userID, answer)
	}
	cs.log.Debug("chat reply", "user_id", userID, "topic", reply.Topic)
	return &ChatExchange{Question: asked, Answer: answer}, nil
}

func (cs *chatService) Suggestions() []string {
	return chat.SuggestedQuestions()
}

func (cs *chatService) Reset(userID uuid.UUID) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.transcripts, userID)
}

func (cs *chatService) newMessage(userID uuid.UUID, role types.ChatRole, content, topic string) *types.ChatMessage {
	return &types.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		Topic:     topic,
		CreatedAt: cs.now(),
	}
}

func (cs *chatService) append(userID uuid.UUID, msg *types.ChatMessage) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	list := append(cs.transcriptLocked(userID), msg)
	if len(list) > maxTranscriptItems {
		list = append([]*types.ChatMessage(nil), list[len(list)-maxTranscriptItems:]...)
	}
	cs.transcripts[userID] = list
}

func (cs *chatService) transcriptLocked(userID uuid.UUID) []*types.ChatMessage {
	list, ok := cs.transcripts[userID]
	if !ok {
		list = []*types.ChatMessage{cs.newMessage(userID, domainchat.RoleAssistant, chat.WelcomeMessage, "")}
		cs.transcripts[userID] = list
	}
	return list
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

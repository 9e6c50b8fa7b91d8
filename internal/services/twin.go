package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/ctxutil"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

var (
	ErrTwinNotFound     = errors.New("no twin for this session")
	ErrEmptyPatch       = errors.New("lifestyle patch has no fields")
	ErrUnknownPersona   = errors.New("unknown persona")
	ErrInvalidBasicInfo = types.ErrInvalidBasicInfo
	ErrSessionEnded     = errors.New("session ended")
)

const (
	NextCreateTwin = "/create-twin"
	NextDashboard  = "/dashboard"
)

// Session tells the client where an authenticated user belongs.
type Session struct {
	UserID  uuid.UUID `json:"user_id"`
	HasTwin bool      `json:"has_twin"`
	Next    string    `json:"next"`
}

type TwinService interface {
	Create(ctx context.Context, info types.BasicInfo, lifestyle types.Lifestyle) (TwinView, error)
	Get(ctx context.Context) (TwinView, error)
	UpdateLifestyle(ctx context.Context, patch types.LifestylePatch) (TwinView, error)
	History(ctx context.Context) ([]types.HistoryPoint, []twin.TrendPoint, error)
	Session(ctx context.Context) (Session, error)
	EndSession(ctx context.Context, userID uuid.UUID)
	Personas() []twin.PersonaInfo
	Demo(persona types.Persona) (DemoView, error)
}

type twinService struct {
	log      *logger.Logger
	registry *twin.Registry
	notifier TwinNotifier
	metrics  *observability.Metrics
}

// NewTwinService registers the notifier's observer on every store the registry creates.
func NewTwinService(log *logger.Logger, notifier TwinNotifier, metrics *observability.Metrics, opts ...twin.Option) TwinService {
	if notifier != nil {
		opts = append(opts, twin.WithObserver(notifier.Observer()))
	}
	return &twinService{
		log:      log.With("service", "TwinService"),
		registry: twin.NewRegistry(opts...),
		notifier: notifier,
		metrics:  metrics,
	}
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized("unauthorized", ErrInvalidToken)
	}
	return userID, nil
}

func twinRequired() error {
	return apierr.Conflict("twin_required", ErrTwinNotFound)
}

func (ts *twinService) Create(ctx context.Context, info types.BasicInfo, lifestyle types.Lifestyle) (TwinView, error) {
	ctx, span := observability.StartSpan(ctx, "twin.create")
	defer span.End()

	userID, err := requireUser(ctx)
	if err != nil {
		return TwinView{}, err
	}
	if err := info.Validate(); err != nil {
		return TwinView{}, apierr.BadRequest("invalid_basic_info", err)
	}

	snap, ok := ts.registry.For(userID).Create(userID, info, lifestyle)
	if !ok {
		// The session ended while this request was in flight.
		return TwinView{}, apierr.Unauthorized("session_ended", ErrSessionEnded)
	}
	span.SetAttributes(attribute.String("twin.persona", string(snap.Twin.Persona)))
	ts.metrics.TwinCreated(string(snap.Twin.Persona))
	ts.log.Info("twin created", "user_id", userID, "twin_id", snap.Twin.ID, "persona", snap.Twin.Persona)
	return NewTwinView(snap), nil
}

func (ts *twinService) Get(ctx context.Context) (TwinView, error) {
	snap, err := ts.current(ctx)
	if err != nil {
		return TwinView{}, err
	}
	return NewTwinView(snap), nil
}

func (ts *twinService) UpdateLifestyle(ctx context.Context, patch types.LifestylePatch) (TwinView, error) {
	ctx, span := observability.StartSpan(ctx, "twin.update_lifestyle")
	defer span.End()

	userID, err := requireUser(ctx)
	if err != nil {
		return TwinView{}, err
	}
	if patch.Empty() {
		return TwinView{}, apierr.BadRequest("empty_patch", ErrEmptyPatch)
	}
	store, ok := ts.registry.Lookup(userID)
	if !ok {
		return TwinView{}, twinRequired()
	}
	snap, ok := store.UpdateLifestyle(patch)
	if !ok {
		return TwinView{}, twinRequired()
	}
	span.SetAttributes(attribute.String("twin.persona", string(snap.Twin.Persona)))
	ts.metrics.LifestyleUpdated(string(snap.Twin.Persona))
	ts.log.Debug("lifestyle updated", "user_id", userID, "persona", snap.Twin.Persona)
	return NewTwinView(snap), nil
}

func (ts *twinService) History(ctx context.Context) ([]types.HistoryPoint, []twin.TrendPoint, error) {
	snap, err := ts.current(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap.History, twin.OverallTrend(snap.History), nil
}

func (ts *twinService) Session(ctx context.Context) (Session, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return Session{}, err
	}
	s := Session{UserID: userID, Next: NextCreateTwin}
	if store, ok := ts.registry.Lookup(userID); ok && store.HasTwin() {
		s.HasTwin = true
		s.Next = NextDashboard
	}
	return s, nil
}

// EndSession forgets the user's twin. Twins live only as long as the login session.
func (ts *twinService) EndSession(ctx context.Context, userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	ts.registry.Drop(userID)
	if ts.notifier != nil {
		ts.notifier.SessionEnded(userID)
	}
	ts.log.Info("session ended", "user_id", userID)
}

func (ts *twinService) Personas() []twin.PersonaInfo {
	return twin.Catalog()
}

func (ts *twinService) Demo(persona types.Persona) (DemoView, error) {
	info, ok := twin.Info(persona)
	if !ok {
		return DemoView{}, apierr.NotFound("unknown_persona", fmt.Errorf("%w: %q", ErrUnknownPersona, persona))
	}
	ind, _ := twin.DemoIndicators(persona)
	return DemoView{
		PersonaInfo: info,
		Lifestyle:   twin.DemoLifestyle(),
		Indicators:  ind,
		Insight:     twin.Narrative(persona, twin.DemoLifestyle()),
		Panel:       twin.Panel(ind),
	}, nil
}

func (ts *twinService) current(ctx context.Context) (twin.Snapshot, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return twin.Snapshot{}, err
	}
	store, ok := ts.registry.Lookup(userID)
	if !ok {
		return twin.Snapshot{}, twinRequired()
	}
	snap, ok := store.Current()
	if !ok {
		return twin.Snapshot{}, twinRequired()
	}
	return snap, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

var ErrInvalidHorizon = errors.New("horizon must be 7, 14 or 30 days")

const defaultProjectionCacheSize = 512

// SimulationResult compares the live twin with the what-if projection.
type SimulationResult struct {
	Days             int              `json:"days"`
	Lifestyle        types.Lifestyle  `json:"lifestyle"`
	Current          types.Indicators `json:"current"`
	CurrentPersona   types.Persona    `json:"current_persona"`
	Projected        types.Indicators `json:"projected"`
	ProjectedPersona types.Persona    `json:"projected_persona"`
	ProjectedInfo    twin.PersonaInfo `json:"projected_persona_info"`
	twin.Outlook
}

type SimulationService interface {
	Simulate(ctx context.Context, patch types.LifestylePatch, days int) (SimulationResult, error)
}

type projectionKey struct {
	lifestyle types.Lifestyle
	days      int
}

type projection struct {
	indicators types.Indicators
	persona    types.Persona
}

type simulationService struct {
	log     *logger.Logger
	twins   TwinService
	metrics *observability.Metrics
	cache   *lru.Cache[projectionKey, projection]
}

func NewSimulationService(log *logger.Logger, twins TwinService, metrics *observability.Metrics, cacheSize int) (SimulationService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultProjectionCacheSize
	}
	cache, err := lru.New[projectionKey, projection](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("projection cache: %w", err)
	}
	return &simulationService{
		log:     log.With("service", "SimulationService"),
		twins:   twins,
		metrics: metrics,
		cache:   cache,
	}, nil
}

// Simulate projects the current twin's lifestyle, adjusted by patch, days ahead.
// The twin itself is left untouched.
func (ss *simulationService) Simulate(ctx context.Context, patch types.LifestylePatch, days int) (SimulationResult, error) {
	ctx, span := observability.StartSpan(ctx, "twin.simulate", attribute.Int("simulation.days", days))
	defer span.End()

	if !twin.ValidHorizon(days) {
		return SimulationResult{}, apierr.BadRequest("invalid_horizon", fmt.Errorf("%w: got %d", ErrInvalidHorizon, days))
	}
	view, err := ss.twins.Get(ctx)
	if err != nil {
		return SimulationResult{}, err
	}

	current := view.Twin
	lifestyle := current.Lifestyle.Apply(patch).Clamp()
	p := ss.project(lifestyle, days)
	info, _ := twin.Info(p.persona)

	ss.metrics.Simulation(strconv.Itoa(days))
	return SimulationResult{
		Days:             days,
		Lifestyle:        lifestyle,
		Current:          current.Indicators,
		CurrentPersona:   current.Persona,
		Projected:        p.indicators,
		ProjectedPersona: p.persona,
		ProjectedInfo:    info,
		Outlook:          twin.Compare(current.Indicators, p.indicators, p.persona, days),
	}, nil
}

func (ss *simulationService) project(l types.Lifestyle, days int) projection {
	key := projectionKey{lifestyle: l, days: days}
	if p, ok := ss.cache.Get(key); ok {
		ss.metrics.CacheLookup("projection", true)
		return p
	}
	ss.metrics.CacheLookup("projection", false)
	ind, persona := twin.Project(l, days)
	p := projection{indicators: ind, persona: persona}
	ss.cache.Add(key, p)
	return p
}

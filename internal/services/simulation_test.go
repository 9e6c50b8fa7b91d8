package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

func newSimulationService(t *testing.T, ts TwinService) *simulationService {
	t.Helper()
	ss, err := NewSimulationService(logger.NewNop(), ts, observability.MustNewMetrics(prometheus.NewRegistry()), 8)
	require.NoError(t, err)
	return ss.(*simulationService)
}

func TestSimulateValidatesHorizonAndTwin(t *testing.T) {
	ts := newTwinService(t, nil)
	ss := newSimulationService(t, ts)
	ctx := userCtx(uuid.New())

	_, err := ss.Simulate(ctx, types.LifestylePatch{}, 10)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_horizon")

	_, err = ss.Simulate(ctx, types.LifestylePatch{}, 30)
	requireAPIError(t, err, http.StatusConflict, "twin_required")
}

func TestSimulateProjectsWithoutTouchingTwin(t *testing.T) {
	ts := newTwinService(t, nil)
	ss := newSimulationService(t, ts)
	ctx := userCtx(uuid.New())

	created, err := ts.Create(ctx, validInfo(), types.DefaultLifestyle())
	require.NoError(t, err)

	res, err := ss.Simulate(ctx, types.LifestylePatch{}, 30)
	require.NoError(t, err)
	assert.Equal(t, created.Twin.Indicators, res.Current)
	assert.Equal(t, types.Indicators{
		HormoneBalance: 82, InflammationIndex: 36, InsulinSensitivity: 79, EnergyLevel: 90, CycleRegularity: 97,
	}, res.Projected)
	assert.Equal(t, types.Persona("balanced-bloom"), res.ProjectedPersona)
	assert.Equal(t, "Balanced Bloom", res.ProjectedInfo.Name)
	assert.Equal(t, []string{"improved hormone balance", "reduced inflammation", "higher energy levels"}, res.Improvements)
	assert.NotEmpty(t, res.Narrative)

	after, err := ts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.Twin, after.Twin)
	assert.Len(t, after.History, 7)
}

func TestSimulateAppliesPatchAndCaches(t *testing.T) {
	ts := newTwinService(t, nil)
	ss := newSimulationService(t, ts)
	ctx := userCtx(uuid.New())
	_, err := ts.Create(ctx, validInfo(), types.DefaultLifestyle())
	require.NoError(t, err)

	patch := types.LifestylePatch{SleepHours: fptr(20), StressLevel: fptr(90)}
	first, err := ss.Simulate(ctx, patch, 7)
	require.NoError(t, err)
	assert.Equal(t, 12.0, first.Lifestyle.SleepHours, "patched lifestyle is clamped")
	assert.Equal(t, 90.0, first.Lifestyle.StressLevel)

	second, err := ss.Simulate(ctx, patch, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, ss.cache.Len())

	_, err = ss.Simulate(ctx, patch, 14)
	require.NoError(t, err)
	assert.Equal(t, 2, ss.cache.Len())
}

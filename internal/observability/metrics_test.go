package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.TwinCreated("balanced-bloom")
	m.LifestyleUpdated("stress-amplified")
	m.LifestyleUpdated("stress-amplified")
	m.ChatReply("energy")
	m.Simulation("30")
	m.CacheLookup("projection", true)
	m.CacheLookup("projection", false)
	m.ObserveAPI("GET", "/api/twin", "200", 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.twinsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lifestyleUpdates))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.personaAssigned.WithLabelValues("stress-amplified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatReplies.WithLabelValues("energy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("projection", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/twin", "200")))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())
	m.Simulation("7")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `lunatwin_simulation_runs_total{horizon="7"} 1`))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.TwinCreated("x")
	m.ChatReply("x")
	m.ApiInflightInc()
	m.ObserveAPI("GET", "/", "200", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, parseHeaders(" a=1, b=2 ,bad,=x"))
	assert.Nil(t, parseHeaders(""))
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
}

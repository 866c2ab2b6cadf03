package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveJobDuration("skeleton-export", 150*time.Millisecond)
	pr.IncJobResult("skeleton-export", ResultWarning)
	pr.ObserveBatchDuration("skeletons", time.Second)
	pr.IncBatchOutcome("skeletons", OutcomeWarning)
	pr.SetWorkers(4)
	pr.IncWatchEvent("modified")
	pr.IncRuleMatch("script")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["assetbuilder_job_results_total"])
	assert.True(t, names["assetbuilder_workers"])
	assert.True(t, names["assetbuilder_rule_matches_total"])
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncJobResult("x", ResultSuccess)
		pr.SetWorkers(1)
	})
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))
	pr := NewPrometheusRecorder(nil)
	assert.Same(t, pr, OrNoop(pr))
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncWatchEvent("modified")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assetbuilder_watch_events_total")
}

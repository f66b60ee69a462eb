package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/metrics"
)

func TestHandler(t *testing.T) {
	metrics.RecordCacheLookup("redis", "hit")
	metrics.RecordCacheWrite("postgres", "error")
	metrics.RecordTipFetch("incremental")
	metrics.RecordUpstream("degentips", "no_data", 0.2)
	metrics.RecordReport(1.5)
	metrics.RecordDegraded("edit")

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `tip_allowance_cache_lookups_total{backend="redis",outcome="hit"}`)
	assert.Contains(t, body, `tip_allowance_cache_writes_total{backend="postgres",outcome="error"}`)
	assert.Contains(t, body, `tip_allowance_tips_fetches_total{path="incremental"}`)
	assert.Contains(t, body, `tip_allowance_upstream_requests_total{outcome="no_data",provider="degentips"}`)
	assert.Contains(t, body, `tip_allowance_upstream_request_duration_seconds_count{provider="degentips"}`)
	assert.Contains(t, body, "tip_allowance_stats_report_duration_seconds_count")
	assert.Contains(t, body, `tip_allowance_stats_degraded_sources_total{source="edit"}`)
}

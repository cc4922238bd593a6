package metrics

import (
	"io"
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
	pr.ObservePageRender(KindModule, 150*time.Millisecond)
	pr.IncPageResult(KindModule, ResultSuccess)
	pr.IncPageResult(KindPackage, ResultNotFound)
	pr.ObserveGenerate(500 * time.Millisecond)
	pr.SetPackages(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
		if mf.GetName() == "sdkdocs_packages" {
			assert.InDelta(t, 3.0, mf.GetMetric()[0].GetGauge().GetValue(), 0.0001)
		}
	}
	for _, want := range []string{
		"sdkdocs_page_render_duration_seconds",
		"sdkdocs_page_results_total",
		"sdkdocs_generate_duration_seconds",
		"sdkdocs_packages",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObservePageRender(KindIndex, time.Second)
	pr.IncPageResult(KindIndex, ResultFailed)
	pr.ObserveGenerate(time.Second)
	pr.SetPackages(1)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncPageResult(KindGuide, ResultSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `sdkdocs_page_results_total{kind="guide",result="success"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePageRender(KindPackage, time.Millisecond)
	r.IncPageResult(KindPackage, ResultSuccess)
	r.ObserveGenerate(time.Millisecond)
	r.SetPackages(0)
}

package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pageDuration     *prom.HistogramVec
	pageResults      *prom.CounterVec
	generateDuration prom.Histogram
	packages         prom.Gauge
}

// NewPrometheusRecorder constructs and registers the sdkdocs metrics on reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sdkdocs",
			Name:      "page_render_duration_seconds",
			Help:      "Duration of individual page renders",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sdkdocs",
			Name:      "page_results_total",
			Help:      "Page render outcomes by kind",
		}, []string{"kind", "result"}),
		generateDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sdkdocs",
			Name:      "generate_duration_seconds",
			Help:      "Duration of full site generation",
			Buckets:   prom.DefBuckets,
		}),
		packages: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sdkdocs",
			Name:      "packages",
			Help:      "Number of packages in the loaded index",
		}),
	}
	reg.MustRegister(pr.pageDuration, pr.pageResults, pr.generateDuration, pr.packages)
	return pr
}

func (p *PrometheusRecorder) ObservePageRender(kind string, d time.Duration) {
	if p == nil || p.pageDuration == nil {
		return
	}
	p.pageDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(kind string, result ResultLabel) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveGenerate(d time.Duration) {
	if p == nil || p.generateDuration == nil {
		return
	}
	p.generateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetPackages(n int) {
	if p == nil || p.packages == nil {
		return
	}
	p.packages.Set(float64(n))
}

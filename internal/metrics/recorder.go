package metrics

import "time"

// ResultLabel enumerates page result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultNotFound ResultLabel = "not_found"
	ResultFailed   ResultLabel = "failed"
)

// Page kinds used as metric labels.
const (
	KindIndex   = "index"
	KindGuide   = "guide"
	KindPackage = "package"
	KindModule  = "module"
)

// Recorder defines observability hooks for page rendering and site generation.
// Implementations may forward to Prometheus or anything else; NoopRecorder is the
// default so callers never need nil checks.
type Recorder interface {
	ObservePageRender(kind string, d time.Duration)
	IncPageResult(kind string, result ResultLabel)
	ObserveGenerate(d time.Duration)
	SetPackages(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePageRender(string, time.Duration) {}
func (NoopRecorder) IncPageResult(string, ResultLabel)       {}
func (NoopRecorder) ObserveGenerate(time.Duration)           {}
func (NoopRecorder) SetPackages(int)                         {}

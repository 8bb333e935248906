package metrics

var _Reporters []Reporter

// Reporter forwards metric records to a backend such as Prometheus. A report
// must not block the caller.
type Reporter interface {
	Report(r Record)
}

// SetMetricsReporters installs the global reporter list. Metrics updated
// before any reporter is installed are silently discarded.
func SetMetricsReporters(reporters []Reporter) {
	_Reporters = reporters
}

package metrics

// Metrics is the base interface every metric type implements.
type Metrics interface {
	// Name returns the metric name.
	Name() string
	// Group returns the metric group for categorisation.
	Group() string
	// Policy returns the aggregation policy for this metric.
	Policy() Policy
}

// Record is one reported observation: the metric, its value, and the labels
// of this particular report.
type Record struct {
	metrics    Metrics
	value      Value
	dimensions Dimension
}

// Metrics returns the metric the record belongs to.
func (r Record) Metrics() Metrics {
	return r.metrics
}

// Value returns the observed value.
func (r Record) Value() Value {
	return r.value
}

// Dimensions returns the labels of the report; may be nil.
func (r Record) Dimensions() Dimension {
	return r.dimensions
}

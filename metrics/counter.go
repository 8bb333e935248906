package metrics

// Counter accumulates a value that only grows: request counts, dropped
// packets, bytes sent.
type Counter interface {
	Metrics
	// Incr increments the counter by delta.
	Incr(delta Value)
	// IncrWithDim increments the counter by delta with report labels.
	IncrWithDim(delta Value, dimensions Dimension)
}

type counter struct {
	name  string
	group string
}

func (c *counter) Name() string {
	return c.name
}

func (c *counter) Group() string {
	return c.group
}

func (c *counter) Policy() Policy {
	return Policy_Sum
}

func (c *counter) Incr(v Value) {
	c.IncrWithDim(v, nil)
}

func (c *counter) IncrWithDim(v Value, dimensions Dimension) {
	r := Record{metrics: c, value: v, dimensions: dimensions}
	for _, reporter := range _Reporters {
		reporter.Report(r)
	}
}

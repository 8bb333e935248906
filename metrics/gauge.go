package metrics

// Gauge tracks a point-in-time value that moves both ways: queue depth,
// backlog size.
type Gauge interface {
	Metrics
	// Update sets the gauge to v.
	Update(v Value)
	// UpdateWithDim sets the gauge to v with report labels.
	UpdateWithDim(v Value, dimensions Dimension)
}

type gauge struct {
	name   string
	group  string
	policy Policy
}

func (g *gauge) Name() string {
	return g.name
}

func (g *gauge) Group() string {
	return g.group
}

func (g *gauge) Policy() Policy {
	return g.policy
}

func (g *gauge) Update(v Value) {
	g.UpdateWithDim(v, nil)
}

func (g *gauge) UpdateWithDim(v Value, dimensions Dimension) {
	r := Record{metrics: g, value: v, dimensions: dimensions}
	for _, reporter := range _Reporters {
		reporter.Report(r)
	}
}

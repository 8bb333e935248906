package metrics

import "sync"

// Metric instances are created lazily on first update and cached for the
// process lifetime; the registries below hold them.
var (
	_counters     = map[string]Counter{}
	_lockCounters = sync.RWMutex{}

	_gauges     = map[string]Gauge{}
	_lockGauges = sync.RWMutex{}

	_avgGauges     = map[string]Gauge{}
	_lockAvgGauges = sync.RWMutex{}
)

// IncrCounterWithGroup increments the named counter.
func IncrCounterWithGroup(name, group string, value Value) {
	if c := getCounter(name, group); c != nil {
		c.Incr(value)
	}
}

// IncrCounterWithDimGroup increments the named counter with report labels.
func IncrCounterWithDimGroup(name, group string, value Value, dimensions Dimension) {
	if c := getCounter(name, group); c != nil {
		c.IncrWithDim(value, dimensions)
	}
}

// UpdateGaugeWithGroup sets the named gauge.
func UpdateGaugeWithGroup(name, group string, value Value) {
	if g := getGauge(name, group); g != nil {
		g.Update(value)
	}
}

// UpdateGaugeWithDimGroup sets the named gauge with report labels.
func UpdateGaugeWithDimGroup(name, group string, value Value, dimensions Dimension) {
	if g := getGauge(name, group); g != nil {
		g.UpdateWithDim(value, dimensions)
	}
}

// UpdateAvgGaugeWithGroup feeds the named averaging gauge.
func UpdateAvgGaugeWithGroup(name, group string, value Value) {
	if g := getAvgGauge(name, group); g != nil {
		g.Update(value)
	}
}

// UpdateAvgGaugeWithDimGroup feeds the named averaging gauge with report
// labels.
func UpdateAvgGaugeWithDimGroup(name, group string, value Value, dimensions Dimension) {
	if g := getAvgGauge(name, group); g != nil {
		g.UpdateWithDim(value, dimensions)
	}
}

func getCounter(name, group string) Counter {
	_lockCounters.RLock()
	c, ok := _counters[name]
	_lockCounters.RUnlock()
	if ok {
		return c
	}

	_lockCounters.Lock()
	defer _lockCounters.Unlock()
	if c, ok = _counters[name]; ok {
		return c
	}
	c = &counter{name: name, group: group}
	_counters[name] = c
	return c
}

func getGauge(name, group string) Gauge {
	_lockGauges.RLock()
	g, ok := _gauges[name]
	_lockGauges.RUnlock()
	if ok {
		return g
	}

	_lockGauges.Lock()
	defer _lockGauges.Unlock()
	if g, ok = _gauges[name]; ok {
		return g
	}
	g = &gauge{name: name, group: group, policy: Policy_Set}
	_gauges[name] = g
	return g
}

func getAvgGauge(name, group string) Gauge {
	_lockAvgGauges.RLock()
	g, ok := _avgGauges[name]
	_lockAvgGauges.RUnlock()
	if ok {
		return g
	}

	_lockAvgGauges.Lock()
	defer _lockAvgGauges.Unlock()
	if g, ok = _avgGauges[name]; ok {
		return g
	}
	g = &gauge{name: name, group: group, policy: Policy_Avg}
	_avgGauges[name] = g
	return g
}

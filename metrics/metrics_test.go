package metrics

import (
	"sync"
	"testing"
)

// captureReporter records everything reported.
type captureReporter struct {
	mu      sync.Mutex
	records []Record
}

func (c *captureReporter) Report(r Record) {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
}

func withCapture(t *testing.T) *captureReporter {
	t.Helper()
	c := &captureReporter{}
	SetMetricsReporters([]Reporter{c})
	t.Cleanup(func() { SetMetricsReporters(nil) })
	return c
}

func TestCounterReports(t *testing.T) {
	c := withCapture(t)

	IncrCounterWithGroup("test_counter_a", GroupVoxnet, 1)
	IncrCounterWithDimGroup("test_counter_a", GroupVoxnet, 2, Dimension{DimPacketType: "SET_VOXEL"})

	if len(c.records) != 2 {
		t.Fatalf("captured %d records, want 2", len(c.records))
	}
	first := c.records[0]
	if first.Metrics().Name() != "test_counter_a" || first.Metrics().Group() != GroupVoxnet {
		t.Errorf("record identity = %s/%s", first.Metrics().Group(), first.Metrics().Name())
	}
	if first.Metrics().Policy() != Policy_Sum {
		t.Errorf("counter policy = %v, want Policy_Sum", first.Metrics().Policy())
	}
	if first.Value() != 1 || c.records[1].Value() != 2 {
		t.Errorf("values = %v, %v", first.Value(), c.records[1].Value())
	}
	if got := c.records[1].Dimensions()[DimPacketType]; got != "SET_VOXEL" {
		t.Errorf("dimension = %q", got)
	}
}

func TestGaugePolicies(t *testing.T) {
	c := withCapture(t)

	UpdateGaugeWithGroup("test_gauge_a", GroupVoxnet, 7)
	UpdateAvgGaugeWithGroup("test_avg_a", GroupVoxnet, 3)

	if len(c.records) != 2 {
		t.Fatalf("captured %d records, want 2", len(c.records))
	}
	if got := c.records[0].Metrics().Policy(); got != Policy_Set {
		t.Errorf("gauge policy = %v, want Policy_Set", got)
	}
	if got := c.records[1].Metrics().Policy(); got != Policy_Avg {
		t.Errorf("avg gauge policy = %v, want Policy_Avg", got)
	}
}

func TestMetricInstancesAreCached(t *testing.T) {
	withCapture(t)
	a := getCounter("test_cached", GroupVoxnet)
	b := getCounter("test_cached", GroupVoxnet)
	if a != b {
		t.Error("counter registry handed out two instances for one name")
	}
}

func TestNoReportersIsSafe(t *testing.T) {
	SetMetricsReporters(nil)
	// Must not panic with an empty reporter list.
	IncrCounterWithGroup("test_orphan", GroupVoxnet, 1)
	UpdateGaugeWithGroup("test_orphan_gauge", GroupVoxnet, 1)
}

func TestCollectorKeyStable(t *testing.T) {
	withCapture(t)
	m := getCounter("test_key", GroupVoxnet)
	r1 := Record{metrics: m, value: 1, dimensions: Dimension{"b": "2", "a": "1"}}
	r2 := Record{metrics: m, value: 1, dimensions: Dimension{"a": "1", "b": "2"}}
	if collectorKey(r1) != collectorKey(r2) {
		t.Error("collector key depends on map iteration order")
	}
	r3 := Record{metrics: m, value: 1, dimensions: Dimension{"a": "other"}}
	if collectorKey(r1) == collectorKey(r3) {
		t.Error("distinct label sets share a collector key")
	}
}

// Prometheus reporter: converts metric records to Prometheus collectors and
// exposes them over an HTTP scrape endpoint.
package metrics

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const _recordChanSize = 65536

// PrometheusReporterConfig tunes the reporter.
type PrometheusReporterConfig struct {
	// ListenAddr is the scrape endpoint address, e.g. ":9091". Empty disables
	// the HTTP server (useful when another listener embeds promhttp).
	ListenAddr string `yaml:"listenAddr"`
}

// PrometheusReporter drains records on its own goroutine and merges them into
// lazily created Prometheus collectors. Report never blocks: a full channel
// drops the record.
type PrometheusReporter struct {
	cfg     PrometheusReporterConfig
	records chan Record
	done    chan struct{}
	server  *http.Server

	// collectors are touched only by the drain goroutine.
	counters  map[string]prometheus.Counter
	gauges    map[string]prometheus.Gauge
	avgStates map[string]*avgState
}

// avgState accumulates observations for a Policy_Avg gauge.
type avgState struct {
	gauge prometheus.Gauge
	sum   float64
	count int
}

// NewPrometheusReporter builds a reporter; call Start before use.
func NewPrometheusReporter(cfg PrometheusReporterConfig) *PrometheusReporter {
	return &PrometheusReporter{
		cfg:       cfg,
		records:   make(chan Record, _recordChanSize),
		done:      make(chan struct{}),
		counters:  make(map[string]prometheus.Counter),
		gauges:    make(map[string]prometheus.Gauge),
		avgStates: make(map[string]*avgState),
	}
}

// Report implements Reporter. It hands the record to the drain goroutine and
// never blocks.
func (p *PrometheusReporter) Report(r Record) {
	select {
	case p.records <- r:
	default:
		// scrape backlog, drop rather than stall the producer
	}
}

// Start launches the drain goroutine and, when configured, the scrape server.
func (p *PrometheusReporter) Start() {
	if p.cfg.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		p.server = &http.Server{Addr: p.cfg.ListenAddr, Handler: mux}
		go p.server.ListenAndServe() //nolint:errcheck // shutdown closes it
	}
	go p.drain()
}

// Stop ends the drain goroutine and shuts the scrape server down.
func (p *PrometheusReporter) Stop() {
	close(p.done)
	if p.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.server.Shutdown(ctx) //nolint:errcheck
	}
}

func (p *PrometheusReporter) drain() {
	for {
		select {
		case <-p.done:
			return
		case r := <-p.records:
			p.merge(r)
		}
	}
}

func (p *PrometheusReporter) merge(r Record) {
	key := collectorKey(r)
	switch r.Metrics().Policy() {
	case Policy_Sum:
		c, ok := p.counters[key]
		if !ok {
			c = promauto.NewCounter(prometheus.CounterOpts{
				Subsystem:   sanitize(r.Metrics().Group()),
				Name:        sanitize(r.Metrics().Name()),
				ConstLabels: prometheus.Labels(r.Dimensions()),
			})
			p.counters[key] = c
		}
		c.Add(float64(r.Value()))
	case Policy_Avg:
		s, ok := p.avgStates[key]
		if !ok {
			s = &avgState{gauge: promauto.NewGauge(prometheus.GaugeOpts{
				Subsystem:   sanitize(r.Metrics().Group()),
				Name:        sanitize(r.Metrics().Name()),
				ConstLabels: prometheus.Labels(r.Dimensions()),
			})}
			p.avgStates[key] = s
		}
		s.sum += float64(r.Value())
		s.count++
		s.gauge.Set(s.sum / float64(s.count))
	default: // Policy_Set and anything unrecognised: last value wins
		g, ok := p.gauges[key]
		if !ok {
			g = promauto.NewGauge(prometheus.GaugeOpts{
				Subsystem:   sanitize(r.Metrics().Group()),
				Name:        sanitize(r.Metrics().Name()),
				ConstLabels: prometheus.Labels(r.Dimensions()),
			})
			p.gauges[key] = g
		}
		g.Set(float64(r.Value()))
	}
}

// collectorKey identifies one collector: metric name plus its sorted labels.
func collectorKey(r Record) string {
	dims := r.Dimensions()
	if len(dims) == 0 {
		return r.Metrics().Name()
	}
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.Metrics().Name())
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(dims[k])
	}
	return b.String()
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, ".", "_")
}

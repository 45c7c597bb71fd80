package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the panel's metrics on a private registry.
type Collector struct {
	registry        *prometheus.Registry
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	staleResponses  *prometheus.CounterVec
	highlighted     *prometheus.CounterVec
	graphNodes      prometheus.Gauge
	graphEdges      prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		backendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tramnet_backend_requests_total", Help: "Backend requests by endpoint and outcome"},
			[]string{"endpoint", "outcome"},
		),
		backendLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tramnet_backend_request_duration_seconds",
				Help:    "Backend request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		staleResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tramnet_stale_responses_total", Help: "Responses discarded because a newer request superseded them"},
			[]string{"slice"},
		),
		highlighted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tramnet_highlight_elements_total", Help: "Path elements resolved or skipped while highlighting"},
			[]string{"kind", "result"},
		),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{Name: "tramnet_graph_nodes", Help: "Stops in the current graph snapshot"}),
		graphEdges: prometheus.NewGauge(prometheus.GaugeOpts{Name: "tramnet_graph_edges", Help: "Connections in the current graph snapshot"}),
	}
	registry.MustRegister(c.backendRequests, c.backendLatency, c.staleResponses, c.highlighted, c.graphNodes, c.graphEdges)
	return c
}

// ObserveRequest records one backend call. outcome is ok, rejected or transport.
func (c *Collector) ObserveRequest(endpoint, outcome string, d time.Duration) {
	c.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	c.backendLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (c *Collector) ObserveStale(slice string) {
	c.staleResponses.WithLabelValues(slice).Inc()
}

func (c *Collector) ObserveHighlight(nodes, edges, unresolved, missingSegments int) {
	c.highlighted.WithLabelValues("node", "resolved").Add(float64(nodes))
	c.highlighted.WithLabelValues("edge", "resolved").Add(float64(edges))
	c.highlighted.WithLabelValues("node", "skipped").Add(float64(unresolved))
	c.highlighted.WithLabelValues("edge", "skipped").Add(float64(missingSegments))
}

func (c *Collector) SetGraphSize(nodes, edges int) {
	c.graphNodes.Set(float64(nodes))
	c.graphEdges.Set(float64(edges))
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Package metrics exports session decoding statistics to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/rmlink/pkg/rmlink"
)

const namespace = "rmlink"

// NewRegistry creates a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Observer implements rmlink.Observer with Prometheus counters.
type Observer struct {
	Records      *prometheus.CounterVec // labels: kind
	Failures     *prometheus.CounterVec // labels: kind
	SubFrames    *prometheus.CounterVec // labels: result=chunk|unknown|malformed|bad_crc
	SkippedBytes prometheus.Counter
	Overflows    prometheus.Counter
	DroppedBytes prometheus.Counter
}

// NewObserver registers and returns the session counters.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records decoded by kind.",
		}, []string{"kind"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Frames or parameters failing to decode by kind.",
		}, []string{"kind"}),
		SubFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subframes_total",
			Help:      "Extended sub-frames scanned by result.",
		}, []string{"result"}),
		SkippedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_bytes_total",
			Help:      "Stray bytes skipped while scanning extended frames.",
		}),
		Overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_overflows_total",
			Help:      "Receive buffer overflows.",
		}),
		DroppedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_bytes_total",
			Help:      "Bytes dropped on receive buffer overflow.",
		}),
	}
	reg.MustRegister(o.Records, o.Failures, o.SubFrames, o.SkippedBytes, o.Overflows, o.DroppedBytes)
	return o
}

// ObserveRecord implements rmlink.Observer.
func (o *Observer) ObserveRecord(kind rmlink.RecordKind) {
	o.Records.WithLabelValues(kind.String()).Inc()
}

// ObserveScan implements rmlink.Observer.
func (o *Observer) ObserveScan(r rmlink.ScanResult) {
	o.SubFrames.WithLabelValues("chunk").Add(float64(r.Chunks))
	o.SubFrames.WithLabelValues("unknown").Add(float64(r.Unknown))
	o.SubFrames.WithLabelValues("malformed").Add(float64(r.Malformed))
	o.SubFrames.WithLabelValues("bad_crc").Add(float64(r.BadCRC))
	o.SkippedBytes.Add(float64(r.Skipped))
}

// ObserveFailure implements rmlink.Observer.
func (o *Observer) ObserveFailure(kind rmlink.RecordKind, err error) {
	o.Failures.WithLabelValues(kind.String()).Inc()
}

// ObserveOverflow implements rmlink.Observer.
func (o *Observer) ObserveOverflow(dropped int) {
	o.Overflows.Inc()
	o.DroppedBytes.Add(float64(dropped))
}

package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wsjtxmon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wsjtxmon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "route", "status"},
	)
	udpDatagrams = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wsjtxmon",
			Subsystem: "udp",
			Name:      "datagrams_total",
			Help:      "Datagrams received, by decoded message type.",
		},
		[]string{"type"},
	)
	udpDecodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wsjtxmon",
			Subsystem: "udp",
			Name:      "decode_errors_total",
			Help:      "Datagrams that failed to decode.",
		},
		[]string{"reason"},
	)
	udpSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wsjtxmon",
			Subsystem: "udp",
			Name:      "sent_total",
			Help:      "Datagrams sent to peers.",
		},
		[]string{"kind", "success"},
	)
	udpTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wsjtxmon",
			Subsystem: "udp",
			Name:      "timeouts_total",
			Help:      "Receive windows that ended without a datagram.",
		},
	)
	udpDatagramBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wsjtxmon",
			Subsystem: "udp",
			Name:      "datagram_bytes",
			Help:      "Received datagram sizes.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 8),
		},
	)
	decodesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wsjtxmon",
			Subsystem: "decodes",
			Name:      "stored",
			Help:      "Decode records currently held.",
		},
	)
	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wsjtxmon",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket feed clients.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			udpDatagrams, udpDecodeErrors, udpSent, udpTimeouts, udpDatagramBytes,
			decodesStored, wsClients,
		)
	})
}

func RecordHTTPRequest(service, method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, route, statusLabel).Observe(duration.Seconds())
}

func RecordDatagram(msgType string, size int) {
	RegisterMetrics()
	udpDatagrams.WithLabelValues(msgType).Inc()
	udpDatagramBytes.Observe(float64(size))
}

// RecordTimeout counts a receive timeout. Timeouts are not datagrams and
// stay out of the datagram counters.
func RecordTimeout() {
	RegisterMetrics()
	udpTimeouts.Inc()
}

func RecordDecodeError(reason string) {
	RegisterMetrics()
	udpDecodeErrors.WithLabelValues(reason).Inc()
}

func RecordSend(kind string, success bool) {
	RegisterMetrics()
	udpSent.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

func SetDecodesStored(n int) {
	RegisterMetrics()
	decodesStored.Set(float64(n))
}

func SetWSClients(n int) {
	RegisterMetrics()
	wsClients.Set(float64(n))
}

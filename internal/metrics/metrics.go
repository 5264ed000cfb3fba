package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	friendshipResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendship_resolutions_total",
			Help: "Relationship resolutions by outcome",
		},
		[]string{"relationship"},
	)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests to downstream services by operation and outcome",
		},
		[]string{"op", "outcome"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of requests to downstream services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// Register adds the domain collectors to reg. Call this from main.go next to
// middleware.InitPrometheus.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(friendshipResolutions, upstreamRequests, upstreamDuration)
}

func ObserveResolution(relationship string) {
	friendshipResolutions.WithLabelValues(relationship).Inc()
}

func ObserveUpstream(op, outcome string, seconds float64) {
	upstreamRequests.WithLabelValues(op, outcome).Inc()
	upstreamDuration.WithLabelValues(op).Observe(seconds)
}

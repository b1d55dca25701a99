// Package metrics registers the prometheus collectors the session,
// stream, and fan-out layers report against. It is a direct,
// hand-registered set of collectors because this system's core loops
// run outside go-zero's HTTP middleware chain, which is where the
// teacher's own prometheus wiring normally lives.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsConnected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookagg_sessions_connected_total",
			Help: "Exchange sessions that completed the connect+subscribe handshake.",
		},
		[]string{"exchange"},
	)

	SessionsReconnected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookagg_sessions_reconnected_total",
			Help: "Exchange session reconnect attempts, by exchange and trigger.",
		},
		[]string{"exchange", "reason"},
	)

	FramesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookagg_frames_decoded_total",
			Help: "Wire frames that decoded into a usable book update.",
		},
		[]string{"exchange"},
	)

	FramesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookagg_frames_dropped_total",
			Help: "Wire frames dropped because they did not decode.",
		},
		[]string{"exchange"},
	)

	ContractViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookagg_contract_violations_total",
			Help: "Fatal contract violations observed while applying a snapshot.",
		},
		[]string{"exchange"},
	)

	ActiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookagg_active_subscribers",
			Help: "Currently connected BookSummary stream subscribers.",
		},
	)

	SummariesEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookagg_summaries_emitted_total",
			Help: "Summary messages sent across all subscribers.",
		},
	)
)

// MustRegister registers every collector above against the given
// registerer. Call once at process start.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		SessionsConnected,
		SessionsReconnected,
		FramesDecoded,
		FramesDropped,
		ContractViolations,
		ActiveSubscribers,
		SummariesEmitted,
	)
}

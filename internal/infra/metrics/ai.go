package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCallsLatencyMs,
		aiTokensIn,
		aiTokensOut,
		aiSimulatedReplies,
		aiFallbacks,
		aiProvidersSelected,
	)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Live provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"provider", "success"},
	)

	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiSimulatedReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_simulated_replies_total",
			Help: "Replies produced by the local simulator per provider.",
		},
		[]string{"provider", "reason"}, // reason: simulation_mode | call_failed | no_client
	)

	aiFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_orchestration_fallbacks_total",
			Help: "Whole-request fallback replies after an orchestration failure.",
		},
	)

	aiProvidersSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_providers_selected_total",
			Help: "How often each provider was selected for a request.",
		},
		[]string{"provider"},
	)
)

func ObserveProviderCall(provider string, latencyMs int, success bool) {
	aiCallsLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func ObserveTokens(provider string, tokensIn, tokensOut int) {
	aiTokensIn.WithLabelValues(norm(provider)).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(norm(provider)).Add(float64(tokensOut))
}

func IncSimulatedReply(provider, reason string) {
	aiSimulatedReplies.WithLabelValues(norm(provider), norm(reason)).Inc()
}

func IncOrchestrationFallback() { aiFallbacks.Inc() }

func IncProviderSelected(provider string) {
	aiProvidersSelected.WithLabelValues(norm(provider)).Inc()
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the prediction flow.
type Metrics struct {
	Predictions        *prometheus.CounterVec // labels: outcome={ok,invalid_input,unknown_magnitude_type,inference_error}
	Tiers              *prometheus.CounterVec // labels: tier
	InferenceDuration  prometheus.Histogram
	PredictedMagnitude prometheus.Histogram
	ModelInfo          *prometheus.GaugeVec // labels: name, version, kind, source
	HistoryErrors      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		Tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "predicted_tier_total",
			Help:      "Successful predictions by severity tier.",
		}, []string{"tier"}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake",
			Name:      "inference_duration_seconds",
			Help:      "Time spent inside the model.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		PredictedMagnitude: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake",
			Name:      "predicted_magnitude",
			Help:      "Distribution of predicted magnitudes.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		}),
		ModelInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quake",
			Name:      "model_info",
			Help:      "Always 1; labels describe the loaded model.",
		}, []string{"name", "version", "kind", "source"}),
		HistoryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "history_write_errors_total",
			Help:      "Predictions that could not be written to history.",
		}),
	}

	reg.MustRegister(
		m.Predictions,
		m.Tiers,
		m.InferenceDuration,
		m.PredictedMagnitude,
		m.ModelInfo,
		m.HistoryErrors,
	)

	return m
}

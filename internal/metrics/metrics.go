package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts served predictions by label.
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spam_detector",
		Name:      "predictions_total",
		Help:      "Number of predictions served, by label.",
	}, []string{"label"})

	// FeedbackTotal counts submitted corrections by outcome.
	FeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spam_detector",
		Name:      "feedback_total",
		Help:      "Number of feedback submissions, by misclassification outcome.",
	}, []string{"misclassified"})

	// RetrainsTotal counts training runs by outcome.
	RetrainsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spam_detector",
		Name:      "retrains_total",
		Help:      "Number of training runs, by outcome.",
	}, []string{"outcome"})

	// ActiveModelAccuracy is the evaluation accuracy of the serving model.
	ActiveModelAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "spam_detector",
		Name:      "active_model_accuracy",
		Help:      "Hold-out accuracy of the currently active model.",
	})
)

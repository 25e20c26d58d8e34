// Package metrics holds the Prometheus collectors of the chatbot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ChatRequestsTotal counts replies by mode (ai-powered or smart-fallback).
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "chat_requests_total",
			Help:      "Total number of chat replies",
		},
		[]string{"mode"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatbot",
			Name:      "chat_request_duration_seconds",
			Help:      "Duration of chat replies in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"mode"},
	)

	// CategoryMatchesTotal counts the category chosen for each message.
	CategoryMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "category_matches_total",
			Help:      "Total number of messages per matched category",
		},
		[]string{"category"},
	)

	TTSRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "tts_requests_total",
			Help:      "Total number of speech synthesis requests",
		},
		[]string{"provider", "status"},
	)

	ConfigSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "config_saves_total",
			Help:      "Total number of configuration saves",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		ChatRequestsTotal,
		ChatRequestDuration,
		CategoryMatchesTotal,
		TTSRequestsTotal,
		ConfigSavesTotal,
	)
}

func RecordChatReply(mode, category string, duration float64) {
	ChatRequestsTotal.WithLabelValues(mode).Inc()
	ChatRequestDuration.WithLabelValues(mode).Observe(duration)
	if category != "" {
		CategoryMatchesTotal.WithLabelValues(category).Inc()
	}
}

func RecordTTS(provider, status string) {
	TTSRequestsTotal.WithLabelValues(provider, status).Inc()
}

func RecordConfigSave(status string) {
	ConfigSavesTotal.WithLabelValues(status).Inc()
}

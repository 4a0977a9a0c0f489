// Package metrics содержит Prometheus-метрики проверок ленты и отправки писем.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "freebies"

var (
	// CyclesTotal считает проверки ленты по итоговому статусу.
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of feed check cycles by status",
		},
		[]string{"status"},
	)

	// NotificationsTotal считает письма по ответу релея.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification attempts by outcome",
		},
		[]string{"outcome"},
	)

	// FeedItemsTotal считает записи ленты по результату классификации.
	FeedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_items_total",
			Help:      "Total number of feed items seen by classification",
		},
		[]string{"kind"},
	)

	RecentEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recent_entries",
			Help:      "Number of titles currently held in the recency window",
		},
	)

	LastCycleTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last finished check cycle",
		},
	)
)

// RecordCycle фиксирует завершение проверки.
func RecordCycle(status string, recent int, at time.Time) {
	CyclesTotal.WithLabelValues(status).Inc()
	RecentEntries.Set(float64(recent))
	LastCycleTimestamp.Set(float64(at.Unix()))
}

func RecordNotification(outcome string) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
}

func RecordItem(kind string) {
	FeedItemsTotal.WithLabelValues(kind).Inc()
}

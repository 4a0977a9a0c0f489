package metrics_test

import (
	"testing"
	"time"

	"freebies/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordCycle(t *testing.T) {
	before := testutil.ToFloat64(metrics.CyclesTotal.WithLabelValues("ok"))

	at := time.Date(2023, 5, 3, 15, 4, 5, 0, time.UTC)
	metrics.RecordCycle("ok", 7, at)

	require.Equal(t, before+1, testutil.ToFloat64(metrics.CyclesTotal.WithLabelValues("ok")))
	require.Equal(t, float64(7), testutil.ToFloat64(metrics.RecentEntries))
	require.Equal(t, float64(at.Unix()), testutil.ToFloat64(metrics.LastCycleTimestamp))
}

func TestRecordNotificationAndItem(t *testing.T) {
	sent := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("accepted"))
	dup := testutil.ToFloat64(metrics.FeedItemsTotal.WithLabelValues("duplicate"))

	metrics.RecordNotification("accepted")
	metrics.RecordItem("duplicate")
	metrics.RecordItem("duplicate")

	require.Equal(t, sent+1, testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("accepted")))
	require.Equal(t, dup+2, testutil.ToFloat64(metrics.FeedItemsTotal.WithLabelValues("duplicate")))
}

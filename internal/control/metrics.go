package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocket metrics
	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cropslice_ws_active_connections",
			Help: "Number of active control WebSocket connections",
		},
	)

	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropslice_control_messages_total",
			Help: "Total number of control messages received",
		},
		[]string{"type"}, // type: down, move, up, cancel, ratio, reset, layout, unknown
	)

	// Crop engine metrics
	dragsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropslice_drags_total",
			Help: "Total number of drags started, by control point",
		},
		[]string{"control_point"},
	)

	configRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropslice_config_rejections_total",
			Help: "Total number of rejected configuration changes",
		},
		[]string{"kind"}, // kind: ratio, layout
	)
)

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "six_ws_connections",
		Help: "Current number of active websocket subscribers",
	})

	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "six_rooms_created_total",
		Help: "Total rooms created",
	})

	GuestsJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "six_guests_joined_total",
		Help: "Total successful guest-slot joins",
	})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "six_messages_sent_total",
		Help: "Total messages sent",
	}, []string{"kind"}) // "text" or "media"

	MessagesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "six_messages_expired_total",
		Help: "Total messages physically deleted by the sweeper",
	})

	RoomsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "six_rooms_closed_total",
		Help: "Total rooms closed by the sweeper",
	})

	TypingDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "six_typing_dropped_total",
		Help: "Typing signals dropped by the per-sender throttle",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "six_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "six_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// GinMiddleware records per-request counters and latency for Prometheus.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warbler_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	SignupSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_signup_success_total",
		Help: "Total successful signups",
	})

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	MessagesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_posted_total",
		Help: "Total messages successfully posted",
	})

	FollowsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_follows_total",
		Help: "Total follow edges created",
	})

	LikesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_likes_total",
		Help: "Total likes created",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SignupSuccess)
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(MessagesPosted)
	prometheus.MustRegister(FollowsCreated)
	prometheus.MustRegister(LikesCreated)
}

// Middleware to track request timing and status code
type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		route := r.URL.Path
		method := r.Method
		status := fmt.Sprintf("%d", rw.statusCode)

		RequestDuration.WithLabelValues(method, route, status).Observe(duration)
	})
}

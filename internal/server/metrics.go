package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	predictions prometheus.Counter
	drawsStored prometheus.Gauge
	fetched     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lottoracle",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lottoracle",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		predictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lottoracle",
			Name:      "predictions_generated_total",
			Help:      "Prediction sets generated.",
		}),
		drawsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lottoracle",
			Name:      "draws_stored",
			Help:      "Draws in the stored history after the last change.",
		}),
		fetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lottoracle",
			Name:      "draws_fetched_total",
			Help:      "Draws fetched from the provider by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.requests, m.duration, m.predictions, m.drawsStored, m.fetched,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

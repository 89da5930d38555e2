package server

import (
	"agent-staffing/logger"
	"agent-staffing/metrics"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs every request and records its route-level metrics.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				latency := time.Since(start)

				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
				metrics.HTTPRequestDurationSeconds.WithLabelValues(route).Observe(latency.Seconds())

				fields := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"latency", latency,
					"client_ip", r.RemoteAddr,
					"request_id", middleware.GetReqID(r.Context()),
					"bytes", ww.BytesWritten(),
				}
				switch {
				case status >= 500:
					log.Error("HTTP Request", fields...)
				case status >= 400:
					log.Warn("HTTP Request", fields...)
				default:
					log.Info("HTTP Request", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"adboard/internal/logger"
)

// RequestLogger writes one structured log entry per request.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("client_ip", r.RemoteAddr),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields = append(fields, logger.String("request_id", id))
			}
			if r.URL.RawQuery != "" {
				fields = append(fields, logger.String("query", r.URL.RawQuery))
			}
			if !strings.HasPrefix(r.URL.Path, "/health") {
				fields = append(fields, logger.String("user_agent", r.UserAgent()))
			}

			if status >= http.StatusInternalServerError {
				log.Error("HTTP request failed", fields...)
				return
			}
			log.Info("HTTP request", fields...)
		})
	}
}

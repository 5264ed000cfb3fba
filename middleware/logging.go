package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"duskSkyWeb/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with a request id, echoed back in the
// response header, and writes one access log line when it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes_out", ww.bytes),
		}
		if ww.statusCode >= http.StatusInternalServerError {
			logging.Warn("access", fields...)
			return
		}
		logging.Info("access", fields...)
	})
}

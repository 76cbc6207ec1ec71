package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// LoggerMiddleware writes one structured log line per request and recovers
// panics into a 500.
func LoggerMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Str("request_id", RequestID(r)).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Interface("panic", rec).
						Msg("request panicked")
					http.Error(recorder, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(recorder, r)

			logger.Info().
				Str("request_id", RequestID(r)).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", recorder.status).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

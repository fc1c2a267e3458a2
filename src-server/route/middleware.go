package route

import (
	"log/slog"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogMiddleware logs every request and turns panics into 500s.
func LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTimer := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while serving request", "path", r.URL.Path, "panic", rec)
				http.Error(recorder, "internal server error", http.StatusInternalServerError)
			}
			slog.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"took", time.Since(startTimer),
			)
		}()
		next.ServeHTTP(recorder, r)
	})
}

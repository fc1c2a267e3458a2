package route

import (
	"context"
	"net/http"
	"time"

	"dndbot/src-server/utils"
)

// Health answers 200 when the database responds within two seconds.
func Health(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := as.BunDB.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

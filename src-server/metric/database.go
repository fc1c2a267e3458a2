package metric

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dndbot/src-server/model"
	"dndbot/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Setting)(nil)).
		Where("guild_id = ?", 0).
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// QueryHook observes the latency of every bun query, labelled by operation
// (SELECT, INSERT, ...) and whether it failed.
type QueryHook struct {
	latency *prometheus.HistogramVec
}

var _ bun.QueryHook = (*QueryHook)(nil)

func NewQueryHook(reg prometheus.Registerer) *QueryHook {
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dndbot_database_query_seconds",
		Help:    "Latency of database queries",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"operation", "status"})
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				latency = existing
			}
		}
	}
	return &QueryHook{latency: latency}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	status := "ok"
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		status = "error"
	}
	h.latency.
		WithLabelValues(event.Operation(), status).
		Observe(time.Since(event.StartTime).Seconds())
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthCheckTimeout はDB疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// Pinger はヘルスチェックで疎通確認する依存先。*sql.DBが実装する。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Warn("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

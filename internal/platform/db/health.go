package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health describes the state of the database connection pool.
type Health struct {
	Healthy      bool          `json:"healthy"`
	Latency      time.Duration `json:"latency_ns"`
	TotalConns   int32         `json:"total_conns"`
	IdleConns    int32         `json:"idle_conns"`
	AcquiredConn int32         `json:"acquired_conns"`
	Error        string        `json:"error,omitempty"`
}

// CheckHealth pings the database and returns a pool snapshot.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) Health {
	stat := pool.Stat()
	h := Health{
		TotalConns:   stat.TotalConns(),
		IdleConns:    stat.IdleConns(),
		AcquiredConn: stat.AcquiredConns(),
	}

	start := time.Now()
	if err := pool.Ping(ctx); err != nil {
		h.Error = err.Error()
		return h
	}
	h.Latency = time.Since(start)
	h.Healthy = true
	return h
}

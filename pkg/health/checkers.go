package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonatlas/salon-service/pkg/consistency"
)

// PostgresChecker pings the pool and reports its connection stats.
func PostgresChecker(pool *pgxpool.Pool) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		start := time.Now()

		err := pool.Ping(ctx)
		duration := time.Since(start)

		if err != nil {
			return CheckResult{
				Status: StatusDown,
				Error:  err.Error(),
				Details: map[string]any{
					"duration_ms": duration.Milliseconds(),
				},
			}
		}

		stats := pool.Stat()

		return CheckResult{
			Status: StatusUp,
			Details: map[string]any{
				"duration_ms":    duration.Milliseconds(),
				"total_conns":    stats.TotalConns(),
				"idle_conns":     stats.IdleConns(),
				"acquired_conns": stats.AcquiredConns(),
			},
		}
	})
}

// SimpleTableChecker verifies the required tables exist.
func SimpleTableChecker(pool *pgxpool.Pool, tables []string) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		for _, table := range tables {
			var exists bool
			query := `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`
			if err := pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
				return CheckResult{
					Status: StatusDown,
					Error:  fmt.Sprintf("failed to check table %s: %v", table, err),
				}
			}
			if !exists {
				return CheckResult{
					Status: StatusDown,
					Error:  fmt.Sprintf("required table missing: %s", table),
					Details: map[string]any{
						"table": table,
					},
				}
			}
		}

		return CheckResult{
			Status: StatusUp,
			Details: map[string]any{
				"tables_checked": len(tables),
			},
		}
	})
}

// ConsistencyChecker reports snapshot drift. Drift is WARN-grade at heart,
// but beyond the tolerated difference the service should stop claiming
// healthy serving data.
func ConsistencyChecker(manager *consistency.Manager, maxDifference int64, timeout time.Duration) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result, err := manager.CheckConsistency(checkCtx)
		if err != nil {
			return CheckResult{
				Status: StatusDown,
				Error:  err.Error(),
			}
		}

		difference := result.SalonsDB - int64(result.SalonsSnapshot)
		if difference < 0 {
			difference = -difference
		}

		details := map[string]any{
			"salons_db":       result.SalonsDB,
			"salons_snapshot": result.SalonsSnapshot,
			"snapshot_age_s":  int64(result.SnapshotAge.Seconds()),
		}

		if !result.IsConsistent && difference > maxDifference {
			return CheckResult{
				Status:  StatusDown,
				Error:   fmt.Sprintf("snapshot drift of %d exceeds tolerance %d", difference, maxDifference),
				Details: details,
			}
		}

		return CheckResult{
			Status:  StatusUp,
			Details: details,
		}
	})
}

package analytics

import (
	"time"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// Compute aggregates per-account outcomes into summary stats for a run.
func Compute(outcomes []model.Outcome, totalDuration time.Duration) model.BatchStats {
	stats := model.BatchStats{
		TotalAccounts:         len(outcomes),
		TotalProcessingTimeMs: totalDuration.Milliseconds(),
	}

	for _, o := range outcomes {
		switch o.Category {
		case model.CategoryValid:
			stats.ValidAccounts++
		case model.CategoryInvalid:
			stats.InvalidAccounts++
		case model.CategoryError:
			stats.ErrorAccounts++
		}

		if o.Message == string(model.ReasonTooManyDevices) {
			stats.DeviceLimited++
		}
	}

	if stats.TotalAccounts > 0 {
		stats.ValidRatePct = float64(stats.ValidAccounts) / float64(stats.TotalAccounts) * 100.0
	}

	return stats
}

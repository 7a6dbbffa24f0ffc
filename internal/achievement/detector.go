package achievement

import (
	"github.com/samber/mo"

	"github.com/cadencehq/cadence/internal/models"
)

// Detect reports whether moving from previousBest to newBest crossed a
// badge threshold for the first time. The catalog is scanned in
// ascending order and only the lowest newly crossed badge is returned:
// a single recompute that jumps several thresholds (a backfilled log,
// say, 5 -> 35) still yields one event. Higher badges surface on later
// recomputes. This single-event-per-recompute behavior is intentional.
func Detect(previousBest, newBest int, catalog []models.Badge) mo.Option[models.Badge] {
	for _, badge := range catalog {
		if newBest >= badge.ThresholdDays && previousBest < badge.ThresholdDays {
			return mo.Some(badge)
		}
	}
	return mo.None[models.Badge]()
}

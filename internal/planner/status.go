package planner

import (
	"context"
	"fmt"
	"time"

	"maintplan-backend/internal/model"
	"maintplan-backend/internal/schedule"
)

// RefreshOverdue flips every pending occurrence whose scheduled date lies
// strictly before asOf to overdue, mutating the slice in place, and returns
// the occurrences that changed. Completed occurrences are never touched.
// Comparison is by calendar date; an occurrence due today stays pending.
func RefreshOverdue(occs []model.MaintenanceOccurrence, asOf time.Time) []model.MaintenanceOccurrence {
	cutoff := schedule.DateOnly(asOf)

	var changed []model.MaintenanceOccurrence
	for i := range occs {
		if occs[i].Status != model.StatusPending {
			continue
		}
		if schedule.DateOnly(occs[i].ScheduledDate).Before(cutoff) {
			occs[i].Status = model.StatusOverdue
			changed = append(changed, occs[i])
		}
	}
	return changed
}

// refreshAndPersist applies RefreshOverdue as of the planner's clock and
// writes the flips back so dashboards and other consumers see the same
// derivation without recomputing it.
func (p *Planner) refreshAndPersist(ctx context.Context, occs []model.MaintenanceOccurrence) ([]model.MaintenanceOccurrence, error) {
	changed := RefreshOverdue(occs, p.now())
	if err := p.store.SaveStatuses(ctx, changed); err != nil {
		return nil, fmt.Errorf("persist overdue statuses: %w", err)
	}
	return occs, nil
}

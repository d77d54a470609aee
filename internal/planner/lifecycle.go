package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"maintplan-backend/internal/model"
	"maintplan-backend/internal/schedule"
)

// GetOccurrence returns a single occurrence with its overdue status
// re-derived and persisted, like the list read paths.
func (p *Planner) GetOccurrence(ctx context.Context, id string) (model.MaintenanceOccurrence, error) {
	occ, err := p.getOccurrence(ctx, id)
	if err != nil {
		return model.MaintenanceOccurrence{}, err
	}
	occs := []model.MaintenanceOccurrence{occ}
	if _, err := p.refreshAndPersist(ctx, occs); err != nil {
		return model.MaintenanceOccurrence{}, err
	}
	return occs[0], nil
}

// Complete marks an occurrence done. completedBy is required; completedDate
// defaults to today. Both pending and overdue occurrences may be completed.
func (p *Planner) Complete(ctx context.Context, id string, completedBy string, completedDate *time.Time) (model.MaintenanceOccurrence, error) {
	actor := strings.TrimSpace(completedBy)
	if actor == "" {
		return model.MaintenanceOccurrence{}, &ValidationError{Field: "completed_by", Reason: "required"}
	}

	occ, err := p.getOccurrence(ctx, id)
	if err != nil {
		return model.MaintenanceOccurrence{}, err
	}

	when := schedule.DateOnly(p.now())
	if completedDate != nil {
		when = schedule.DateOnly(*completedDate)
	}

	occ.Status = model.StatusCompleted
	occ.CompletedDate = &when
	occ.CompletedBy = &actor

	if err := p.store.SaveOccurrence(ctx, &occ); err != nil {
		return model.MaintenanceOccurrence{}, fmt.Errorf("save occurrence %s: %w", id, err)
	}
	return occ, nil
}

// Uncomplete reverts a completed occurrence to pending and clears the
// completion stamps. If its scheduled date has already passed, the next
// evaluator pass will flip it straight to overdue; that is expected and not
// corrected here.
func (p *Planner) Uncomplete(ctx context.Context, id string) (model.MaintenanceOccurrence, error) {
	occ, err := p.getOccurrence(ctx, id)
	if err != nil {
		return model.MaintenanceOccurrence{}, err
	}

	occ.Status = model.StatusPending
	occ.CompletedDate = nil
	occ.CompletedBy = nil

	if err := p.store.SaveOccurrence(ctx, &occ); err != nil {
		return model.MaintenanceOccurrence{}, fmt.Errorf("save occurrence %s: %w", id, err)
	}
	return occ, nil
}

func (p *Planner) getOccurrence(ctx context.Context, id string) (model.MaintenanceOccurrence, error) {
	occ, err := p.store.GetOccurrence(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MaintenanceOccurrence{}, ErrNotFound
	}
	if err != nil {
		return model.MaintenanceOccurrence{}, fmt.Errorf("load occurrence %s: %w", id, err)
	}
	return occ, nil
}

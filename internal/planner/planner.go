package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"maintplan-backend/config"
	"maintplan-backend/internal/model"
	"maintplan-backend/internal/schedule"
	"maintplan-backend/internal/store"
)

// Planner orchestrates year-plan generation, reset, status evaluation and
// the occurrence lifecycle over an injected Store.
type Planner struct {
	store     store.Store
	anchorDay int
	minYear   int
	maxYear   int
	now       func() time.Time // swapped out in tests
}

// New creates a planner. Defaulting of the config values happens in
// config.Load; zero values here still get sane fallbacks so a hand-built
// config in tests works.
func New(s store.Store, cfg *config.PlannerConfig) *Planner {
	p := &Planner{
		store:     s,
		anchorDay: cfg.AnchorDay,
		minYear:   cfg.MinYear,
		maxYear:   cfg.MaxYear,
		now:       time.Now,
	}
	if p.anchorDay < 1 || p.anchorDay > 31 {
		p.anchorDay = schedule.DefaultAnchorDay
	}
	if p.minYear <= 0 {
		p.minYear = config.DefaultMinYear
	}
	if p.maxYear <= 0 {
		p.maxYear = config.DefaultMaxYear
	}
	return p
}

// EquipmentFailure records one equipment item that could not be processed
// during generation. Failures never abort the rest of the batch.
type EquipmentFailure struct {
	EquipmentID int64  `json:"equipment_id"`
	Code        string `json:"code"`
	Reason      string `json:"reason"`
}

// GenerateResult is the outcome of a GenerateYearPlan call.
type GenerateResult struct {
	Generated int                `json:"generated"`
	Failures  []EquipmentFailure `json:"failures,omitempty"`
}

// GenerateYearPlan materializes the maintenance calendar for every piece of
// equipment the facility owns. Regeneration is idempotent: candidates that
// already exist are skipped by the store's insert-if-absent, so a second run
// over an unchanged facility reports Generated == 0 and leaves completed or
// edited occurrences alone.
func (p *Planner) GenerateYearPlan(ctx context.Context, facilityID int64, year int) (GenerateResult, error) {
	if err := p.validateYear(year); err != nil {
		return GenerateResult{}, err
	}

	equipment, err := p.store.ListEquipmentByFacility(ctx, facilityID)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load equipment for facility %d: %w", facilityID, err)
	}

	var result GenerateResult
	for _, eq := range equipment {
		slots := schedule.YearSlots(eq, year, p.anchorDay)
		if len(slots) == 0 {
			// No active check definitions is a valid silent no-op.
			continue
		}

		occs := make([]model.MaintenanceOccurrence, 0, len(slots))
		for _, slot := range slots {
			occs = append(occs, model.MaintenanceOccurrence{
				ID:            uuid.NewString(),
				EquipmentID:   eq.ID,
				Frequency:     slot.Frequency,
				ScheduledDate: slot.Date,
				Year:          year,
				Status:        model.StatusPending,
				Description:   checkText(eq, slot.Frequency),
			})
		}

		// One transaction per equipment batch; a failure here is collected
		// and the remaining equipment still gets its plan.
		inserted, err := p.store.InsertMissing(ctx, occs)
		if err != nil {
			result.Failures = append(result.Failures, EquipmentFailure{
				EquipmentID: eq.ID,
				Code:        eq.Code,
				Reason:      err.Error(),
			})
			continue
		}
		result.Generated += inserted
	}
	return result, nil
}

// ResetYearPlan unconditionally deletes the facility's occurrences for the
// year, completed ones included. There is no soft delete or recovery.
func (p *Planner) ResetYearPlan(ctx context.Context, facilityID int64, year int) (int64, error) {
	if err := p.validateYear(year); err != nil {
		return 0, err
	}
	deleted, err := p.store.DeleteByFacilityYear(ctx, facilityID, year)
	if err != nil {
		return 0, fmt.Errorf("reset year plan for facility %d: %w", facilityID, err)
	}
	return deleted, nil
}

// ListFacilityYear returns the facility's occurrences for the year with
// overdue status re-derived as of today and persisted.
func (p *Planner) ListFacilityYear(ctx context.Context, facilityID int64, year int) ([]model.MaintenanceOccurrence, error) {
	if err := p.validateYear(year); err != nil {
		return nil, err
	}
	occs, err := p.store.ListByFacilityYear(ctx, facilityID, year)
	if err != nil {
		return nil, err
	}
	return p.refreshAndPersist(ctx, occs)
}

// ListEquipmentYear returns one equipment's occurrences for the year with
// overdue status re-derived as of today and persisted.
func (p *Planner) ListEquipmentYear(ctx context.Context, equipmentID int64, year int) ([]model.MaintenanceOccurrence, error) {
	if err := p.validateYear(year); err != nil {
		return nil, err
	}
	occs, err := p.store.ListByEquipmentYear(ctx, equipmentID, year)
	if err != nil {
		return nil, err
	}
	return p.refreshAndPersist(ctx, occs)
}

func (p *Planner) validateYear(year int) error {
	if year < p.minYear || year > p.maxYear {
		return &ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("must be between %d and %d", p.minYear, p.maxYear),
		}
	}
	return nil
}

// checkText picks the instruction text backing the given frequency; it
// becomes the occurrence description so lists are readable without another
// lookup.
func checkText(eq model.Equipment, freq model.Frequency) string {
	switch freq {
	case model.FrequencyMonthly:
		return eq.CheckMonthly
	case model.FrequencyQuarterly:
		return eq.CheckQuarterly
	case model.FrequencyBiannual:
		return eq.CheckBiannual
	case model.FrequencyAnnual:
		return eq.CheckAnnual
	}
	return ""
}

package model

import "time"

// Frequency is a recurrence cadence for periodic maintenance.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyBiannual  Frequency = "biannual"
	FrequencyAnnual    Frequency = "annual"
)

// OccurrenceStatus is the lifecycle state of a maintenance occurrence.
//
// pending is the initial state. overdue is derived from pending by the
// status evaluator once the scheduled date has passed. completed is entered
// via the lifecycle controller and is the only state carrying the
// CompletedDate/CompletedBy stamps.
type OccurrenceStatus string

const (
	StatusPending   OccurrenceStatus = "pending"
	StatusCompleted OccurrenceStatus = "completed"
	StatusOverdue   OccurrenceStatus = "overdue"
)

// MaintenanceOccurrence is one concrete calendar entry of the year plan.
//
// The composite unique index on (equipment_id, frequency, scheduled_date) is
// what makes plan regeneration idempotent: the store inserts with
// ON CONFLICT DO NOTHING against it, so an already-present (possibly edited
// or completed) occurrence is never clobbered.
type MaintenanceOccurrence struct {
	ID            string    `gorm:"primaryKey;size:36"`
	EquipmentID   int64     `gorm:"not null;uniqueIndex:idx_occurrence_slot;index:idx_occurrence_equipment_year"`
	Frequency     Frequency `gorm:"size:16;not null;uniqueIndex:idx_occurrence_slot"`
	ScheduledDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_occurrence_slot"`

	// Year is the planning year the occurrence belongs to. ScheduledDate
	// always falls inside it; the column exists so year-scoped queries can
	// hit idx_occurrence_equipment_year instead of a date range scan.
	Year int `gorm:"not null;index:idx_occurrence_equipment_year"`

	Status        OccurrenceStatus `gorm:"size:16;not null"`
	CompletedDate *time.Time       `gorm:"type:date"`
	CompletedBy   *string          `gorm:"size:128"`
	Description   string           `gorm:"size:256"`
	Notes         string           `gorm:"size:1024"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Equipment Equipment `gorm:"constraint:OnDelete:CASCADE"`
}

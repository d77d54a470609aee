package model

import "time"

// Equipment represents a piece of physical equipment under periodic
// maintenance. The record itself is managed by the master-data side of the
// application; the planner only reads it.
//
// The Check* columns hold the free-text instructions for each periodic check.
// A non-blank text means that recurrence frequency is active for the
// equipment. CheckDaily is carried for completeness but the daily inspection
// checklist is a separate subsystem and never feeds the year planner.
type Equipment struct {
	ID          int64  `gorm:"primaryKey"` // Master-data ID
	FacilityID  int64  `gorm:"index;not null"`
	Code        string `gorm:"size:64;not null"`
	Description string `gorm:"size:256"`
	Category    string `gorm:"size:64"`

	CheckDaily     string `gorm:"size:1024"`
	CheckMonthly   string `gorm:"size:1024"`
	CheckQuarterly string `gorm:"size:1024"`
	CheckBiannual  string `gorm:"size:1024"`
	CheckAnnual    string `gorm:"size:1024"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Facility Facility `gorm:"constraint:OnDelete:CASCADE"`
}

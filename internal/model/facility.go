package model

import "time"

// Facility represents a managed site that owns equipment.
type Facility struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Equipment []Equipment `gorm:"foreignKey:FacilityID"`
}

package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maintplan-backend/internal/model"
)

// Store defines the interface for all database operations the planner and
// the API need. The planner never touches *gorm.DB directly so tests can
// substitute a failing or in-memory implementation.
type Store interface {
	DB() *gorm.DB

	// ListFacilities returns every facility, name-ordered.
	ListFacilities(ctx context.Context) ([]model.Facility, error)

	// ListEquipmentByFacility returns the equipment owned by a facility.
	ListEquipmentByFacility(ctx context.Context, facilityID int64) ([]model.Equipment, error)

	// InsertMissing inserts the candidate occurrences that do not already
	// exist, resolved against the (equipment_id, frequency, scheduled_date)
	// unique index at the database level. Existing rows are never touched.
	// The whole batch is applied in one transaction. Returns the number of
	// rows actually inserted.
	InsertMissing(ctx context.Context, occs []model.MaintenanceOccurrence) (int, error)

	ListByFacilityYear(ctx context.Context, facilityID int64, year int) ([]model.MaintenanceOccurrence, error)
	ListByEquipmentYear(ctx context.Context, equipmentID int64, year int) ([]model.MaintenanceOccurrence, error)
	GetOccurrence(ctx context.Context, id string) (model.MaintenanceOccurrence, error)

	// DeleteByFacilityYear removes every occurrence of the facility's
	// equipment in the given year, completed ones included. Other years are
	// untouched. Returns the number of rows deleted.
	DeleteByFacilityYear(ctx context.Context, facilityID int64, year int) (int64, error)

	// SaveOccurrence persists a mutated occurrence.
	SaveOccurrence(ctx context.Context, occ *model.MaintenanceOccurrence) error

	// SaveStatuses persists status flips produced by the evaluator. Only the
	// status column is written so concurrent completions are not clobbered.
	SaveStatuses(ctx context.Context, occs []model.MaintenanceOccurrence) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListFacilities(ctx context.Context) ([]model.Facility, error) {
	var facilities []model.Facility
	err := s.db.WithContext(ctx).Order("name").Find(&facilities).Error
	return facilities, err
}

func (s *gormStore) ListEquipmentByFacility(ctx context.Context, facilityID int64) ([]model.Equipment, error) {
	var equipment []model.Equipment
	err := s.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("code").
		Find(&equipment).Error
	return equipment, err
}

func (s *gormStore) InsertMissing(ctx context.Context, occs []model.MaintenanceOccurrence) (int, error) {
	if len(occs) == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "equipment_id"},
				{Name: "frequency"},
				{Name: "scheduled_date"},
			},
			DoNothing: true,
		}).Create(&occs)
		if res.Error != nil {
			return res.Error
		}
		// The driver reports only rows actually written, so skipped
		// duplicates fall out of the count here.
		inserted = res.RowsAffected
		return nil
	})
	return int(inserted), err
}

// facilityEquipmentIDs builds the subquery selecting a facility's equipment
// IDs; occurrence rows do not carry the facility directly.
func (s *gormStore) facilityEquipmentIDs(facilityID int64) *gorm.DB {
	return s.db.Model(&model.Equipment{}).Select("id").Where("facility_id = ?", facilityID)
}

func (s *gormStore) ListByFacilityYear(ctx context.Context, facilityID int64, year int) ([]model.MaintenanceOccurrence, error) {
	var occs []model.MaintenanceOccurrence
	err := s.db.WithContext(ctx).
		Preload("Equipment").
		Where("year = ? AND equipment_id IN (?)", year, s.facilityEquipmentIDs(facilityID)).
		Order("scheduled_date, equipment_id, frequency").
		Find(&occs).Error
	return occs, err
}

func (s *gormStore) ListByEquipmentYear(ctx context.Context, equipmentID int64, year int) ([]model.MaintenanceOccurrence, error) {
	var occs []model.MaintenanceOccurrence
	err := s.db.WithContext(ctx).
		Where("equipment_id = ? AND year = ?", equipmentID, year).
		Order("scheduled_date, frequency").
		Find(&occs).Error
	return occs, err
}

func (s *gormStore) GetOccurrence(ctx context.Context, id string) (model.MaintenanceOccurrence, error) {
	var occ model.MaintenanceOccurrence
	err := s.db.WithContext(ctx).Preload("Equipment").First(&occ, "id = ?", id).Error
	return occ, err
}

func (s *gormStore) DeleteByFacilityYear(ctx context.Context, facilityID int64, year int) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("year = ? AND equipment_id IN (?)", year, s.facilityEquipmentIDs(facilityID)).
		Delete(&model.MaintenanceOccurrence{})
	return res.RowsAffected, res.Error
}

func (s *gormStore) SaveOccurrence(ctx context.Context, occ *model.MaintenanceOccurrence) error {
	return s.db.WithContext(ctx).
		Model(&model.MaintenanceOccurrence{}).
		Where("id = ?", occ.ID).
		Updates(map[string]any{
			"status":         occ.Status,
			"completed_date": occ.CompletedDate,
			"completed_by":   occ.CompletedBy,
			"notes":          occ.Notes,
		}).Error
}

func (s *gormStore) SaveStatuses(ctx context.Context, occs []model.MaintenanceOccurrence) error {
	if len(occs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, occ := range occs {
			if err := tx.Model(&model.MaintenanceOccurrence{}).
				Where("id = ?", occ.ID).
				Update("status", occ.Status).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

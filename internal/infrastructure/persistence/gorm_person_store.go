package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/person-service/backend/internal/domain/person"
	"github.com/person-service/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPersonStore implements person.RecordStore on a SQL database via GORM
type GormPersonStore struct {
	db *gorm.DB
}

// NewGormPersonStore creates a new GormPersonStore
func NewGormPersonStore(db *gorm.DB) *GormPersonStore {
	return &GormPersonStore{db: db}
}

// Put inserts the record, overwriting any row with the same id
func (s *GormPersonStore) Put(ctx context.Context, rec person.Record) error {
	model := models.PersonModelFromDomain(rec)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "phone_number", "address"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to put person %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteIfExists deletes the row with id, returning person.ErrRecordNotFound
// when no row matched
func (s *GormPersonStore) DeleteIfExists(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PersonModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete person %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete person %s: %w", id, person.ErrRecordNotFound)
	}
	return nil
}

// FindByID finds a person record by its ID
func (s *GormPersonStore) FindByID(ctx context.Context, id string) (*person.Record, error) {
	var model models.PersonModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, person.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find person %s: %w", id, err)
	}
	return model.ToDomain(), nil
}

// Ping checks the database connection
func (s *GormPersonStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates the persons table when schema migrations are not run
// separately (sqlite and tests).
func (s *GormPersonStore) AutoMigrate() error {
	return s.db.AutoMigrate(&models.PersonModel{})
}

var _ person.RecordStore = (*GormPersonStore)(nil)

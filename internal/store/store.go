// Package store persists the companion registry.
package store

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Companion is one registered companion endpoint. UDID identifies the
// device the companion serves; an empty UDID entry acts as a wildcard.
type Companion struct {
	ID        uint   `gorm:"primaryKey"`
	UDID      string `gorm:"column:udid;uniqueIndex"`
	Host      string
	Port      int
	IsLocal   bool
	CreatedAt time.Time
}

func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening registry %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Companion{}); err != nil {
		return nil, fmt.Errorf("migrating registry: %w", err)
	}
	return db, nil
}

type CompanionStore struct {
	db *gorm.DB
}

func NewCompanionStore(db *gorm.DB) *CompanionStore {
	return &CompanionStore{db: db}
}

// Upsert registers a companion, replacing any previous entry for the
// same UDID.
func (s *CompanionStore) Upsert(c *Companion) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "udid"}},
		DoUpdates: clause.AssignmentColumns([]string{"host", "port", "is_local"}),
	}).Create(c).Error
}

func (s *CompanionStore) GetByUDID(udid string) (Companion, error) {
	var c Companion
	err := s.db.Where("udid = ?", udid).First(&c).Error
	return c, err
}

// List returns all registered companions, oldest first.
func (s *CompanionStore) List() ([]Companion, error) {
	var companions []Companion
	err := s.db.Order("created_at").Find(&companions).Error
	return companions, err
}

func (s *CompanionStore) Delete(udid string) error {
	res := s.db.Where("udid = ?", udid).Delete(&Companion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

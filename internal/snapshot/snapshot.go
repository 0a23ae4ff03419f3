package snapshot

import (
	"errors"
	"fmt"
	"real-estate-investor/internal/models"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles property snapshot operations
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new snapshot service
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger, now: time.Now}
}

// day truncates t to the calendar date the snapshot belongs to
func day(t time.Time) time.Time {
	return t.Truncate(24 * time.Hour)
}

// NewSnapshot captures the tracked figures of a property for the day of now
func NewSnapshot(property *models.Property, now time.Time) *models.PropertySnapshot {
	return &models.PropertySnapshot{
		PropertyID:         property.ID,
		SnapshotAt:         day(now),
		Price:              property.Price,
		RentEstimate:       property.RentEstimate,
		CapRate:            property.CapRate,
		CashOnCash:         property.CashOnCash,
		YearlyAppreciation: property.YearlyAppreciation,
		Status:             string(property.Status),
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Compare lists the differences between the previous snapshot and the
// current state. A nil previous snapshot means the property is new.
func Compare(property *models.Property, last *models.PropertySnapshot, now time.Time) []models.PropertyChange {
	if last == nil {
		return []models.PropertyChange{{
			PropertyID: property.ID,
			ChangeType: models.ChangeTypeNew,
			NewValue:   "New property detected",
			DetectedAt: now,
		}}
	}

	changes := []models.PropertyChange{}
	numeric := func(changeType string, old, cur float64) {
		if old == cur {
			return
		}
		magnitude := cur - old
		changes = append(changes, models.PropertyChange{
			PropertyID:      property.ID,
			ChangeType:      changeType,
			OldValue:        money(old),
			NewValue:        money(cur),
			ChangeMagnitude: &magnitude,
			DetectedAt:      now,
		})
	}

	numeric(models.ChangeTypePrice, last.Price, property.Price)
	numeric(models.ChangeTypeRent, last.RentEstimate, property.RentEstimate)
	numeric(models.ChangeTypeCapRate, last.CapRate, property.CapRate)
	numeric(models.ChangeTypeCashOnCash, last.CashOnCash, property.CashOnCash)

	if string(property.Status) != last.Status {
		changes = append(changes, models.PropertyChange{
			PropertyID: property.ID,
			ChangeType: models.ChangeTypeStatus,
			OldValue:   last.Status,
			NewValue:   string(property.Status),
			DetectedAt: now,
		})
	}

	return changes
}

// lastSnapshot returns the most recent snapshot up to and including today,
// or nil. Comparing against today's row keeps repeated refreshes on the same
// day from recording the same change twice.
func (s *Service) lastSnapshot(propertyID string, today time.Time) (*models.PropertySnapshot, error) {
	var last models.PropertySnapshot
	err := s.db.Where("property_id = ? AND snapshot_at <= ?", propertyID, today).
		Order("snapshot_at DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &last, nil
}

// saveSnapshot creates today's snapshot or overwrites it. An overwrite
// without new changes keeps the change flag set earlier in the day.
func (s *Service) saveSnapshot(snapshot *models.PropertySnapshot) error {
	var existing models.PropertySnapshot
	result := s.db.Where("property_id = ? AND snapshot_at = ?", snapshot.PropertyID, snapshot.SnapshotAt).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.Create(snapshot).Error
	} else if result.Error != nil {
		return result.Error
	}

	snapshot.ID = existing.ID
	snapshot.CreatedAt = existing.CreatedAt
	if !snapshot.HasChanged {
		snapshot.HasChanged = existing.HasChanged
		snapshot.ChangeNote = existing.ChangeNote
	}
	return s.db.Save(snapshot).Error
}

// SaveChanges saves detected changes to the database
func (s *Service) SaveChanges(changes []models.PropertyChange, snapshotID uint) error {
	if len(changes) == 0 {
		return nil
	}

	for i := range changes {
		changes[i].SnapshotID = snapshotID
	}

	return s.db.Create(&changes).Error
}

// CreateSnapshotWithChangeDetection creates a snapshot and detects changes
func (s *Service) CreateSnapshotWithChangeDetection(property *models.Property) error {
	now := s.now()

	var changes []models.PropertyChange
	last, err := s.lastSnapshot(property.ID, day(now))
	if err != nil {
		s.logger.Warn("failed to load previous snapshot", zap.String("property_id", property.ID), zap.Error(err))
	} else {
		changes = Compare(property, last, now)
	}

	snapshot := NewSnapshot(property, now)
	snapshot.HasChanged = len(changes) > 0
	if len(changes) > 0 {
		snapshot.ChangeNote = fmt.Sprintf("%d changes detected", len(changes))
	}

	if err := s.saveSnapshot(snapshot); err != nil {
		return err
	}

	if len(changes) > 0 {
		if err := s.SaveChanges(changes, snapshot.ID); err != nil {
			s.logger.Warn("failed to save changes", zap.String("property_id", property.ID), zap.Error(err))
		} else {
			s.logger.Debug("changes detected", zap.String("property_id", property.ID), zap.Int("count", len(changes)))
		}
	}

	return nil
}

// RecordRemovals stores a property_removed change for each id
func (s *Service) RecordRemovals(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := s.now()
	changes := make([]models.PropertyChange, len(ids))
	for i, id := range ids {
		changes[i] = models.PropertyChange{
			PropertyID: id,
			ChangeType: models.ChangeTypeRemoved,
			OldValue:   string(models.PropertyStatusActive),
			NewValue:   string(models.PropertyStatusRemoved),
			DetectedAt: now,
		}
	}
	return s.db.Create(&changes).Error
}

// GetPropertyHistory retrieves snapshot history for a property
func (s *Service) GetPropertyHistory(propertyID string, limit int) ([]models.PropertySnapshot, error) {
	var snapshots []models.PropertySnapshot
	query := s.db.Where("property_id = ?", propertyID).Order("snapshot_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetRecentChanges retrieves recent property changes
func (s *Service) GetRecentChanges(limit int) ([]models.PropertyChange, error) {
	var changes []models.PropertyChange
	query := s.db.Order("detected_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&changes).Error; err != nil {
		return nil, err
	}

	return changes, nil
}

// Stats returns the snapshot total and the number of changes detected since
func (s *Service) Stats(since time.Time) (snapshots, changes int64, err error) {
	if err = s.db.Model(&models.PropertySnapshot{}).Count(&snapshots).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&models.PropertyChange{}).Where("detected_at >= ?", since).Count(&changes).Error; err != nil {
		return 0, 0, err
	}
	return snapshots, changes, nil
}

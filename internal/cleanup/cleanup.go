package cleanup

import (
	"errors"
	"fmt"
	"real-estate-investor/internal/models"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrTooManyDeletions is returned when a run would exceed the safety limit
var ErrTooManyDeletions = errors.New("deletion limit exceeded")

// IndexRemover drops documents from the search index
type IndexRemover interface {
	RemoveProperties(ids []string) error
}

// Service handles physical deletion of old removed properties
type Service struct {
	db     *gorm.DB
	index  IndexRemover
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new cleanup service. index may be nil.
func NewService(db *gorm.DB, index IndexRemover, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, index: index, logger: logger, now: time.Now}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays    int  `json:"retention_days"`     // Days to keep removed properties before physical deletion (default: 90)
	MaxDeletionCount int  `json:"max_deletion_count"` // Maximum number of properties to delete in one run
	DryRun           bool `json:"dry_run"`            // Only report what would be deleted
	PruneHistory     bool `json:"prune_history"`      // Also drop snapshots and changes older than the retention window
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
		PruneHistory:     true,
	}
}

// Normalize fills zero values with defaults
func (c CleanupConfig) Normalize() CleanupConfig {
	def := DefaultCleanupConfig()
	if c.RetentionDays <= 0 {
		c.RetentionDays = def.RetentionDays
	}
	if c.MaxDeletionCount <= 0 {
		c.MaxDeletionCount = def.MaxDeletionCount
	}
	return c
}

// Cutoff is the instant before which removed properties are expired
func Cutoff(now time.Time, retentionDays int) time.Time {
	return now.AddDate(0, 0, -retentionDays)
}

// CheckLimit enforces the per-run safety limit
func CheckLimit(target, max int) error {
	if target > max {
		return fmt.Errorf("%w: %d properties exceed max deletion limit of %d", ErrTooManyDeletions, target, max)
	}
	return nil
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount       int       `json:"target_count"`
	DeletedCount      int       `json:"deleted_count"`
	ErrorCount        int       `json:"error_count"`
	PrunedSnapshots   int64     `json:"pruned_snapshots"`
	PrunedChanges     int64     `json:"pruned_changes"`
	DryRun            bool      `json:"dry_run"`
	ExecutedAt        time.Time `json:"executed_at"`
	DeletedProperties []string  `json:"deleted_properties"`
	Errors            []string  `json:"errors,omitempty"`
}

// FindExpiredProperties finds properties with status removed whose
// removed_at is older than retentionDays
func (s *Service) FindExpiredProperties(retentionDays int) ([]models.Property, error) {
	var properties []models.Property

	cutoffDate := Cutoff(s.now(), retentionDays)

	err := s.db.Where("status = ? AND removed_at < ?",
		models.PropertyStatusRemoved,
		cutoffDate,
	).Find(&properties).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find expired properties: %w", err)
	}

	s.logger.Debug("expired properties found",
		zap.Int("count", len(properties)),
		zap.String("cutoff", cutoffDate.Format("2006-01-02")))
	return properties, nil
}

// deleteProperty writes the delete log and removes the property with its comps
func deleteProperty(tx *gorm.DB, prop models.Property) error {
	removedAt := time.Time{}
	if prop.RemovedAt != nil {
		removedAt = *prop.RemovedAt
	}
	deleteLog := models.DeleteLog{
		PropertyID: prop.ID,
		Address:    prop.Address,
		Price:      prop.Price,
		RemovedAt:  removedAt,
		Reason:     models.DeleteReasonExpired,
	}
	if err := tx.Create(&deleteLog).Error; err != nil {
		return fmt.Errorf("create delete log: %w", err)
	}
	if err := tx.Where("property_id = ?", prop.ID).Delete(&models.Comp{}).Error; err != nil {
		return fmt.Errorf("delete comps: %w", err)
	}
	if err := tx.Delete(&models.Property{}, "id = ?", prop.ID).Error; err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

// PhysicallyDelete performs physical deletion of properties
func (s *Service) PhysicallyDelete(config CleanupConfig) (*CleanupResult, error) {
	config = config.Normalize()
	result := &CleanupResult{
		DryRun:            config.DryRun,
		ExecutedAt:        s.now(),
		DeletedProperties: []string{},
	}

	expiredProperties, err := s.FindExpiredProperties(config.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(expiredProperties)

	if err := CheckLimit(result.TargetCount, config.MaxDeletionCount); err != nil {
		return nil, err
	}

	s.logger.Info("cleanup started",
		zap.Int("targets", result.TargetCount),
		zap.Int("retention_days", config.RetentionDays),
		zap.Bool("dry_run", config.DryRun))

	for _, prop := range expiredProperties {
		if config.DryRun {
			s.logger.Info("would delete property", zap.String("property_id", prop.ID), zap.String("address", prop.Address))
			result.DeletedProperties = append(result.DeletedProperties, prop.ID)
			result.DeletedCount++
			continue
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			return deleteProperty(tx, prop)
		})
		if err != nil {
			errMsg := fmt.Sprintf("property %s: %v", prop.ID, err)
			s.logger.Error("cleanup failed", zap.String("property_id", prop.ID), zap.Error(err))
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		result.DeletedProperties = append(result.DeletedProperties, prop.ID)
		result.DeletedCount++
	}

	if !config.DryRun && s.index != nil && len(result.DeletedProperties) > 0 {
		if err := s.index.RemoveProperties(result.DeletedProperties); err != nil {
			s.logger.Warn("failed to remove deleted properties from search index", zap.Error(err))
		}
	}

	if config.PruneHistory && !config.DryRun {
		if err := s.pruneHistory(Cutoff(s.now(), config.RetentionDays), result); err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.ErrorCount++
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", result.DeletedCount),
		zap.Int("targets", result.TargetCount),
		zap.Int("errors", result.ErrorCount),
		zap.Bool("dry_run", config.DryRun))

	return result, nil
}

// pruneHistory drops snapshots and changes recorded before cutoff
func (s *Service) pruneHistory(cutoff time.Time, result *CleanupResult) error {
	res := s.db.Where("snapshot_at < ?", cutoff).Delete(&models.PropertySnapshot{})
	if res.Error != nil {
		return fmt.Errorf("prune snapshots: %w", res.Error)
	}
	result.PrunedSnapshots = res.RowsAffected

	res = s.db.Where("detected_at < ?", cutoff).Delete(&models.PropertyChange{})
	if res.Error != nil {
		return fmt.Errorf("prune changes: %w", res.Error)
	}
	result.PrunedChanges = res.RowsAffected
	return nil
}

// GetDeleteStats returns statistics about deleted properties
func (s *Service) GetDeleteStats(retentionDays int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalDeleted int64
	if err := s.db.Model(&models.DeleteLog{}).Count(&totalDeleted).Error; err != nil {
		return nil, err
	}
	stats["total_deleted"] = totalDeleted

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := s.db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	var recentDeleted int64
	thirtyDaysAgo := s.now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentDeleted).Error; err != nil {
		return nil, err
	}
	stats["deleted_last_30_days"] = recentDeleted

	var expired int64
	if err := s.db.Model(&models.Property{}).
		Where("status = ? AND removed_at < ?", models.PropertyStatusRemoved, Cutoff(s.now(), retentionDays)).
		Count(&expired).Error; err != nil {
		return nil, err
	}
	stats["expired_ready_for_deletion"] = expired

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(limit int) ([]models.DeleteLog, error) {
	var logs []models.DeleteLog
	err := s.db.Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

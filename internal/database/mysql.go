package database

import (
	"context"
	"errors"
	"fmt"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/models"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return NewGormDBFromDB(db), nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.Property{},
		&models.Comp{},
		&models.PropertySnapshot{},
		&models.PropertyChange{},
		&models.DeleteLog{},
	)
}

// ListProperties retrieves active properties in catalog order
func (gdb *GormDB) ListProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := gdb.db.WithContext(ctx).
		Preload("Comps", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("status = ?", models.PropertyStatusActive).
		Order("position ASC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	for i := range properties {
		if properties[i].Comps == nil {
			properties[i].Comps = []models.Comp{}
		}
	}
	return properties, nil
}

// GetProperty retrieves an active property by ID
func (gdb *GormDB) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := gdb.db.WithContext(ctx).
		Preload("Comps", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND status = ?", id, models.PropertyStatusActive).
		First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if property.Comps == nil {
		property.Comps = []models.Comp{}
	}
	return &property, nil
}

// saveComps replaces the comparable sales of a property within a transaction
func saveComps(tx *gorm.DB, propertyID string, comps []models.Comp) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.Comp{}).Error; err != nil {
		return err
	}
	if len(comps) == 0 {
		return nil
	}

	rows := make([]models.Comp, len(comps))
	for i, c := range comps {
		c.ID = 0
		c.PropertyID = propertyID
		rows[i] = c
	}
	return tx.Create(&rows).Error
}

// savePropertyTx upserts a property by id and replaces its comps
func savePropertyTx(tx *gorm.DB, p *models.Property) error {
	p.Status = models.PropertyStatusActive
	p.RemovedAt = nil

	var existing models.Property
	result := tx.Select("id", "created_at").Where("id = ?", p.ID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		if err := tx.Omit("Comps").Create(p).Error; err != nil {
			return err
		}
	} else if result.Error != nil {
		return result.Error
	} else {
		// keep original CreatedAt
		p.CreatedAt = existing.CreatedAt
		if err := tx.Omit("Comps").Save(p).Error; err != nil {
			return err
		}
	}

	return saveComps(tx, p.ID, p.Comps)
}

// SaveProperty saves or updates a property together with its comps. An
// existing record keeps its position, a new one goes to the end.
func (gdb *GormDB) SaveProperty(ctx context.Context, p *models.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Property
		err := tx.Select("id", "position").Where("id = ?", p.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Model(&models.Property{}).Select("COALESCE(MAX(position), -1) + 1").Scan(&p.Position).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			p.Position = existing.Position
		}
		return savePropertyTx(tx, p)
	})
}

// markRemovedTx marks the active properties among ids as removed
func markRemovedTx(tx *gorm.DB, ids []string, now time.Time) error {
	return tx.Model(&models.Property{}).
		Where("id IN ? AND status = ?", ids, models.PropertyStatusActive).
		Updates(map[string]interface{}{
			"status":     models.PropertyStatusRemoved,
			"removed_at": &now,
		}).Error
}

// MarkPropertiesAsRemoved marks multiple properties as removed (logical deletion)
func (gdb *GormDB) MarkPropertiesAsRemoved(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return markRemovedTx(gdb.db.WithContext(ctx), ids, time.Now())
}

// DetectDifferences compares current active properties with an incoming catalog
func (gdb *GormDB) DetectDifferences(ctx context.Context, incoming []models.Property) (newIDs []string, removedIDs []string, updated []models.Property, err error) {
	active, err := gdb.ListProperties(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	newIDs, removedIDs, updated = catalog.Diff(active, incoming)
	return newIDs, removedIDs, updated, nil
}

// Sync stores the incoming catalog in one transaction and marks missing
// properties as removed.
func (gdb *GormDB) Sync(ctx context.Context, props []models.Property) (*catalog.SyncResult, error) {
	if err := catalog.Validate(props); err != nil {
		return nil, err
	}

	newIDs, removedIDs, updated, err := gdb.DetectDifferences(ctx, props)
	if err != nil {
		return nil, err
	}

	err = gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range props {
			p := props[i]
			p.Position = i
			if err := savePropertyTx(tx, &p); err != nil {
				return fmt.Errorf("save property %s: %w", p.ID, err)
			}
		}
		if len(removedIDs) == 0 {
			return nil
		}
		return markRemovedTx(tx, removedIDs, time.Now())
	})
	if err != nil {
		return nil, err
	}

	updatedIDs := make([]string, len(updated))
	for i, p := range updated {
		updatedIDs[i] = p.ID
	}
	return &catalog.SyncResult{
		NewIDs:     newIDs,
		RemovedIDs: removedIDs,
		UpdatedIDs: updatedIDs,
		Total:      len(props),
	}, nil
}

// CountByStatus returns property counts by status
func (gdb *GormDB) CountByStatus(ctx context.Context) (active, removed int64, err error) {
	db := gdb.db.WithContext(ctx).Model(&models.Property{})
	if err = db.Where("status = ?", models.PropertyStatusActive).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	db = gdb.db.WithContext(ctx).Model(&models.Property{})
	if err = db.Where("status = ?", models.PropertyStatusRemoved).Count(&removed).Error; err != nil {
		return 0, 0, err
	}
	return active, removed, nil
}

package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-investor/internal/models"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "history.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.AutoMigrate(&models.PropertySnapshot{}, &models.PropertyChange{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	clock := now
	svc := NewService(db, nil)
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func countChanges(t *testing.T, svc *Service, changeType string) int64 {
	t.Helper()
	var n int64
	if err := svc.db.Model(&models.PropertyChange{}).Where("change_type = ?", changeType).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", changeType, err)
	}
	return n
}

func TestCreateSnapshotWithChangeDetection_SameDayRefresh(t *testing.T) {
	svc, clock := newTestService(t)
	p := current()

	if err := svc.CreateSnapshotWithChangeDetection(p); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	*clock = now.AddDate(0, 0, 1)
	p.Price = 725000
	if err := svc.CreateSnapshotWithChangeDetection(p); err != nil {
		t.Fatalf("price change: %v", err)
	}

	// further refreshes on the same day with the same figures
	for i := 0; i < 3; i++ {
		*clock = clock.Add(time.Hour)
		if err := svc.CreateSnapshotWithChangeDetection(p); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}

	if got := countChanges(t, svc, models.ChangeTypeNew); got != 1 {
		t.Fatalf("new_property rows=%d want=1", got)
	}
	if got := countChanges(t, svc, models.ChangeTypePrice); got != 1 {
		t.Fatalf("price_changed rows=%d want=1", got)
	}

	history, err := svc.GetPropertyHistory(p.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("snapshots=%d want=2", len(history))
	}
	if !history[0].HasChanged || history[0].Price != 725000 {
		t.Fatalf("latest snapshot=%+v", history[0])
	}

	// a second real change on the same day is still recorded
	*clock = clock.Add(time.Hour)
	p.Price = 700000
	if err := svc.CreateSnapshotWithChangeDetection(p); err != nil {
		t.Fatalf("second price change: %v", err)
	}
	if got := countChanges(t, svc, models.ChangeTypePrice); got != 2 {
		t.Fatalf("price_changed rows=%d want=2", got)
	}
	changes, err := svc.GetRecentChanges(1)
	if err != nil || len(changes) != 1 {
		t.Fatalf("recent=%v err=%v", changes, err)
	}
	if changes[0].OldValue != "725000.00" || changes[0].NewValue != "700000.00" {
		t.Fatalf("latest change=%+v", changes[0])
	}
}

func TestRecordRemovalsAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.CreateSnapshotWithChangeDetection(current()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := svc.RecordRemovals([]string{"1", "2"}); err != nil {
		t.Fatalf("RecordRemovals: %v", err)
	}
	if err := svc.RecordRemovals(nil); err != nil {
		t.Fatalf("RecordRemovals(nil): %v", err)
	}

	if got := countChanges(t, svc, models.ChangeTypeRemoved); got != 2 {
		t.Fatalf("property_removed rows=%d want=2", got)
	}
	snapshots, changes, err := svc.Stats(now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if snapshots != 1 || changes != 3 {
		t.Fatalf("snapshots=%d changes=%d want=1,3", snapshots, changes)
	}
}

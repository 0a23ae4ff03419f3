package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/models"
)

func newTestGormDB(t *testing.T) *GormDB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	gdb := NewGormDBFromDB(db)
	if err := gdb.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	t.Cleanup(func() { gdb.Close() })
	return gdb
}

func listing(id string, price float64) models.Property {
	return models.Property{
		ID:      id,
		Address: id + " Main St, Austin, TX",
		Price:   price,
		Sqft:    1000,
		Tags:    []string{"Cashflow"},
		Comps:   []models.Comp{{Address: "next door", Price: price, Sqft: 900, SoldDate: "2024-01-15"}},
	}
}

func activeIDs(t *testing.T, gdb *GormDB) []string {
	t.Helper()
	props, err := gdb.ListProperties(context.Background())
	if err != nil {
		t.Fatalf("ListProperties: %v", err)
	}
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func TestGormDB_SyncLifecycle(t *testing.T) {
	gdb := newTestGormDB(t)
	ctx := context.Background()

	res, err := gdb.Sync(ctx, []models.Property{listing("1", 100000), listing("2", 200000)})
	if err != nil {
		t.Fatalf("initial sync: %v", err)
	}
	if !reflect.DeepEqual(res.NewIDs, []string{"1", "2"}) || len(res.RemovedIDs) != 0 {
		t.Fatalf("initial result=%+v", res)
	}

	res, err = gdb.Sync(ctx, []models.Property{listing("3", 300000), listing("1", 150000)})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if !reflect.DeepEqual(res.NewIDs, []string{"3"}) || !reflect.DeepEqual(res.RemovedIDs, []string{"2"}) ||
		!reflect.DeepEqual(res.UpdatedIDs, []string{"1"}) || res.Total != 2 {
		t.Fatalf("second result=%+v", res)
	}
	if got := activeIDs(t, gdb); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Fatalf("order=%v want=[3 1]", got)
	}

	p, err := gdb.GetProperty(ctx, "1")
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if p.Price != 150000 || len(p.Comps) != 1 || !reflect.DeepEqual(p.Tags, []string{"Cashflow"}) {
		t.Fatalf("property=%+v", p)
	}
	if _, err := gdb.GetProperty(ctx, "2"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("removed property err=%v", err)
	}

	active, removed, err := gdb.CountByStatus(ctx)
	if err != nil || active != 2 || removed != 1 {
		t.Fatalf("active=%d removed=%d err=%v", active, removed, err)
	}

	// a removed listing that reappears is active again
	res, err = gdb.Sync(ctx, []models.Property{listing("2", 200000)})
	if err != nil {
		t.Fatalf("third sync: %v", err)
	}
	if !reflect.DeepEqual(res.NewIDs, []string{"2"}) || !reflect.DeepEqual(res.RemovedIDs, []string{"1", "3"}) {
		t.Fatalf("third result=%+v", res)
	}
	if p, err := gdb.GetProperty(ctx, "2"); err != nil || p.RemovedAt != nil {
		t.Fatalf("reactivated=%+v err=%v", p, err)
	}
}

func TestGormDB_SyncRejectsInvalid(t *testing.T) {
	gdb := newTestGormDB(t)
	ctx := context.Background()
	if _, err := gdb.Sync(ctx, []models.Property{listing("1", 100000)}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	_, err := gdb.Sync(ctx, []models.Property{listing("1", 100000), listing("1", 120000)})
	if !errors.Is(err, catalog.ErrDuplicateID) {
		t.Fatalf("err=%v want ErrDuplicateID", err)
	}
	if got := activeIDs(t, gdb); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("failed sync modified the catalog: %v", got)
	}
}

func TestGormDB_SaveAndRemove(t *testing.T) {
	gdb := newTestGormDB(t)
	ctx := context.Background()
	if _, err := gdb.Sync(ctx, []models.Property{listing("1", 100000), listing("2", 200000)}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	updated := listing("1", 90000)
	if err := gdb.SaveProperty(ctx, &updated); err != nil {
		t.Fatalf("SaveProperty: %v", err)
	}
	added := listing("3", 300000)
	if err := gdb.SaveProperty(ctx, &added); err != nil {
		t.Fatalf("SaveProperty: %v", err)
	}
	if got := activeIDs(t, gdb); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("order=%v want=[1 2 3]", got)
	}
	if p, _ := gdb.GetProperty(ctx, "1"); p == nil || p.Price != 90000 || len(p.Comps) != 1 {
		t.Fatalf("updated=%+v", p)
	}

	bad := listing("4", 0)
	if err := gdb.SaveProperty(ctx, &bad); !errors.Is(err, models.ErrInvalidProperty) {
		t.Fatalf("err=%v want ErrInvalidProperty", err)
	}

	if err := gdb.MarkPropertiesAsRemoved(ctx, []string{"2", "missing"}); err != nil {
		t.Fatalf("MarkPropertiesAsRemoved: %v", err)
	}
	if got := activeIDs(t, gdb); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("after removal=%v", got)
	}
	active, removed, _ := gdb.CountByStatus(ctx)
	if active != 2 || removed != 1 {
		t.Fatalf("active=%d removed=%d", active, removed)
	}
}

package snapshot

import (
	"testing"
	"time"

	"real-estate-investor/internal/models"
)

var now = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

func current() *models.Property {
	return &models.Property{
		ID:                 "1",
		Price:              750000,
		RentEstimate:       4200,
		CapRate:            5.8,
		CashOnCash:         8.2,
		YearlyAppreciation: 4.5,
		Status:             models.PropertyStatusActive,
	}
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot(current(), now)
	if !s.SnapshotAt.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("snapshot_at=%v", s.SnapshotAt)
	}
	if s.Price != 750000 || s.RentEstimate != 4200 || s.Status != "active" {
		t.Fatalf("snapshot=%+v", s)
	}
}

func TestCompare_NewProperty(t *testing.T) {
	changes := Compare(current(), nil, now)
	if len(changes) != 1 || changes[0].ChangeType != models.ChangeTypeNew {
		t.Fatalf("changes=%+v", changes)
	}
}

func TestCompare_NoChange(t *testing.T) {
	last := NewSnapshot(current(), now.AddDate(0, 0, -1))
	if changes := Compare(current(), last, now); len(changes) != 0 {
		t.Fatalf("changes=%+v", changes)
	}
}

func TestCompare_Changes(t *testing.T) {
	last := NewSnapshot(current(), now.AddDate(0, 0, -1))
	p := current()
	p.Price = 725000
	p.RentEstimate = 4300
	p.Status = models.PropertyStatusRemoved

	changes := Compare(p, last, now)
	if len(changes) != 3 {
		t.Fatalf("changes=%+v", changes)
	}

	price := changes[0]
	if price.ChangeType != models.ChangeTypePrice || price.OldValue != "750000.00" || price.NewValue != "725000.00" {
		t.Fatalf("price change=%+v", price)
	}
	if price.ChangeMagnitude == nil || *price.ChangeMagnitude != -25000 {
		t.Fatalf("magnitude=%v", price.ChangeMagnitude)
	}
	if changes[1].ChangeType != models.ChangeTypeRent || *changes[1].ChangeMagnitude != 100 {
		t.Fatalf("rent change=%+v", changes[1])
	}
	if changes[2].ChangeType != models.ChangeTypeStatus || changes[2].NewValue != "removed" {
		t.Fatalf("status change=%+v", changes[2])
	}
}

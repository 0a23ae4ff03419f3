package catalog

import (
	"context"
	"real-estate-investor/internal/models"
	"sort"
	"time"
)

// SyncResult describes what a catalog refresh changed.
type SyncResult struct {
	NewIDs     []string `json:"new_ids"`
	RemovedIDs []string `json:"removed_ids"`
	UpdatedIDs []string `json:"updated_ids"`
	Total      int      `json:"total"`
}

// Syncer is implemented by providers that accept a full refresh. Records
// absent from the incoming list are marked removed, not deleted.
type Syncer interface {
	Provider
	Sync(ctx context.Context, props []models.Property) (*SyncResult, error)
}

// Diff compares the currently active records with an incoming list.
// Returned ids are sorted.
func Diff(active, incoming []models.Property) (newIDs, removedIDs []string, updated []models.Property) {
	activeMap := make(map[string]*models.Property, len(active))
	for i := range active {
		activeMap[active[i].ID] = &active[i]
	}
	incomingMap := make(map[string]*models.Property, len(incoming))
	for i := range incoming {
		incomingMap[incoming[i].ID] = &incoming[i]
	}

	for id, p := range incomingMap {
		old, exists := activeMap[id]
		if !exists {
			newIDs = append(newIDs, id)
			continue
		}
		if HasChanged(old, p) {
			updated = append(updated, *p)
		}
	}
	for id := range activeMap {
		if _, exists := incomingMap[id]; !exists {
			removedIDs = append(removedIDs, id)
		}
	}

	sort.Strings(newIDs)
	sort.Strings(removedIDs)
	sort.Slice(updated, func(i, j int) bool { return updated[i].ID < updated[j].ID })
	return newIDs, removedIDs, updated
}

// HasChanged reports whether any investor-facing figure differs.
func HasChanged(old, new *models.Property) bool {
	return old.Address != new.Address ||
		old.Image != new.Image ||
		old.Price != new.Price ||
		old.RentEstimate != new.RentEstimate ||
		old.RepairsEstimate != new.RepairsEstimate ||
		old.CapRate != new.CapRate ||
		old.CashOnCash != new.CashOnCash ||
		old.YearlyAppreciation != new.YearlyAppreciation ||
		old.Financing != new.Financing ||
		old.MarketMetrics != new.MarketMetrics ||
		old.ROI != new.ROI ||
		!equalTags(old.Tags, new.Tags)
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ids(props []models.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

// Sync replaces the active records with props. Records that disappear are
// kept with status removed so history lookups still resolve.
func (s *Static) Sync(ctx context.Context, props []models.Property) (*SyncResult, error) {
	if err := Validate(props); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var active []models.Property
	for _, p := range s.properties {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	newIDs, removedIDs, updated := Diff(active, props)

	now := time.Now()
	next := make([]models.Property, 0, len(props)+len(removedIDs))
	for i, p := range props {
		p.Status = models.PropertyStatusActive
		p.RemovedAt = nil
		p.Position = i
		next = append(next, p)
	}
	incoming := make(map[string]bool, len(props))
	for _, p := range props {
		incoming[p.ID] = true
	}
	for _, p := range s.properties {
		if incoming[p.ID] {
			continue
		}
		if p.IsActive() {
			p.Status = models.PropertyStatusRemoved
			p.RemovedAt = &now
		}
		next = append(next, p)
	}
	s.properties = next

	return &SyncResult{
		NewIDs:     newIDs,
		RemovedIDs: removedIDs,
		UpdatedIDs: ids(updated),
		Total:      len(props),
	}, nil
}

package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"real-estate-investor/internal/models"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Properties []models.Property `yaml:"properties"`
}

// Static is an in-memory catalog. Its contents only change through Replace,
// which swaps the whole list at once.
type Static struct {
	mu         sync.RWMutex
	properties []models.Property
}

// NewStatic builds a catalog from already validated records.
func NewStatic(props []models.Property) (*Static, error) {
	s := &Static{}
	if err := s.Replace(props); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSeed decodes a YAML seed. An empty path selects the built-in dataset.
func LoadSeed(path string) ([]models.Property, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) ([]models.Property, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	for i := range seed.Properties {
		if seed.Properties[i].Status == "" {
			seed.Properties[i].Status = models.PropertyStatusActive
		}
		if seed.Properties[i].Comps == nil {
			seed.Properties[i].Comps = []models.Comp{}
		}
	}
	if err := Validate(seed.Properties); err != nil {
		return nil, err
	}
	return seed.Properties, nil
}

// Replace swaps the catalog contents after validating them.
func (s *Static) Replace(props []models.Property) error {
	if err := Validate(props); err != nil {
		return err
	}
	cp := make([]models.Property, len(props))
	copy(cp, props)
	for i := range cp {
		cp[i].Position = i
	}

	s.mu.Lock()
	s.properties = cp
	s.mu.Unlock()
	return nil
}

func (s *Static) ListProperties(ctx context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Static) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := Find(s.properties, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrNotFound
	}
	return p, nil
}

// CountByStatus returns how many records are active and how many are removed.
func (s *Static) CountByStatus(ctx context.Context) (active, removed int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.properties {
		if p.IsActive() {
			active++
		} else {
			removed++
		}
	}
	return active, removed, nil
}

// SaveProperty inserts or replaces one record and makes it active.
func (s *Static) SaveProperty(ctx context.Context, p *models.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	rec := *p
	rec.Status = models.PropertyStatusActive
	rec.RemovedAt = nil
	if rec.Comps == nil {
		rec.Comps = []models.Comp{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := 0
	for i := range s.properties {
		if s.properties[i].ID == rec.ID {
			rec.Position = s.properties[i].Position
			s.properties[i] = rec
			return nil
		}
		if s.properties[i].Position >= next {
			next = s.properties[i].Position + 1
		}
	}
	rec.Position = next
	s.properties = append(s.properties, rec)
	return nil
}

// MarkPropertiesAsRemoved takes active records with the given ids out of the catalog.
func (s *Static) MarkPropertiesAsRemoved(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i := range s.properties {
		if remove[s.properties[i].ID] && s.properties[i].IsActive() {
			s.properties[i].Status = models.PropertyStatusRemoved
			s.properties[i].RemovedAt = &now
		}
	}
	return nil
}

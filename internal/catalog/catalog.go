// Package catalog supplies the ordered sequence of property records the rest
// of the system reads from. Providers are read-only from the caller's view.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"real-estate-investor/internal/models"
)

var (
	ErrNotFound    = errors.New("property not found")
	ErrDuplicateID = errors.New("duplicate property id")
)

// Provider is the read contract every catalog source fulfils.
// ListProperties returns active properties in catalog order, without paging.
type Provider interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
}

// Editor is implemented by providers that accept changes to single records.
// SaveProperty keeps the position of an existing record and appends a new
// one to the end of the catalog. MarkPropertiesAsRemoved ignores ids that
// are unknown or already removed.
type Editor interface {
	SaveProperty(ctx context.Context, p *models.Property) error
	MarkPropertiesAsRemoved(ctx context.Context, ids []string) error
}

// Validate checks every record and the uniqueness of ids across the catalog.
func Validate(props []models.Property) error {
	seen := make(map[string]struct{}, len(props))
	for i := range props {
		if err := props[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[props[i].ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, props[i].ID)
		}
		seen[props[i].ID] = struct{}{}
	}
	return nil
}

// Find returns the property with the given id from props.
func Find(props []models.Property, id string) (*models.Property, error) {
	for i := range props {
		if props[i].ID == id {
			p := props[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProperty is wrapped by every ValidationError.
var ErrInvalidProperty = errors.New("invalid property")

// ValidationError names the first field of a Property that breaks an invariant.
type ValidationError struct {
	PropertyID string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("property %q: %s %s", e.PropertyID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidProperty
}

// Validate checks the catalog invariants. The metrics calculator divides by
// price and sqft, so both must be strictly positive here.
func (p *Property) Validate() error {
	fail := func(field, reason string) error {
		return &ValidationError{PropertyID: p.ID, Field: field, Reason: reason}
	}

	if strings.TrimSpace(p.ID) == "" {
		return fail("id", "is required")
	}
	if p.Price <= 0 {
		return fail("price", "must be positive")
	}
	if p.Sqft <= 0 {
		return fail("sqft", "must be positive")
	}
	if p.Beds < 0 {
		return fail("beds", "must not be negative")
	}
	if p.Baths < 0 {
		return fail("baths", "must not be negative")
	}

	percentages := []struct {
		name  string
		value float64
	}{
		{"cap_rate", p.CapRate},
		{"cash_on_cash", p.CashOnCash},
		{"yearly_appreciation", p.YearlyAppreciation},
		{"financing.interest_rate", p.Financing.InterestRate},
	}
	for _, pct := range percentages {
		if pct.value < 0 {
			return fail(pct.name, "must not be negative")
		}
	}

	if !p.MarketMetrics.Volatility.IsValid() {
		return fail("market_metrics.volatility", fmt.Sprintf("unknown value %q", p.MarketMetrics.Volatility))
	}
	if !p.PropertyType.IsValid() {
		return fail("property_type", fmt.Sprintf("unknown value %q", p.PropertyType))
	}

	return nil
}

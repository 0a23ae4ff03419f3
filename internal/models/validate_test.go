package models

import (
	"errors"
	"testing"
)

func validProperty() Property {
	return Property{
		ID:           "1",
		Price:        750000,
		Address:      "123 Investment Ave, Austin, TX 78701",
		Beds:         4,
		Baths:        3,
		Sqft:         2500,
		CapRate:      5.8,
		CashOnCash:   8.2,
		RentEstimate: 4200,
		Financing:    Financing{DownPayment: 150000, InterestRate: 6.5, MonthlyPayment: 3800},
		MarketMetrics: MarketMetrics{
			Volatility: VolatilityLow,
		},
		PropertyType: PropertyTypeSingleFamily,
	}
}

func TestValidate_OK(t *testing.T) {
	p := validProperty()
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Property)
		field string
	}{
		{"missing id", func(p *Property) { p.ID = " " }, "id"},
		{"zero price", func(p *Property) { p.Price = 0 }, "price"},
		{"negative price", func(p *Property) { p.Price = -1 }, "price"},
		{"zero sqft", func(p *Property) { p.Sqft = 0 }, "sqft"},
		{"negative baths", func(p *Property) { p.Baths = -1 }, "baths"},
		{"negative cap rate", func(p *Property) { p.CapRate = -0.1 }, "cap_rate"},
		{"negative cash on cash", func(p *Property) { p.CashOnCash = -2 }, "cash_on_cash"},
		{"bad volatility", func(p *Property) { p.MarketMetrics.Volatility = "Extreme" }, "market_metrics.volatility"},
		{"bad property type", func(p *Property) { p.PropertyType = "Castle" }, "property_type"},
	}
	for _, tt := range tests {
		p := validProperty()
		tt.edit(&p)
		err := p.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !errors.Is(err, ErrInvalidProperty) {
			t.Fatalf("%s: err=%v want wraps ErrInvalidProperty", tt.name, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tt.field {
			t.Fatalf("%s: field=%v want=%s", tt.name, ve, tt.field)
		}
	}
}

func TestHasTag(t *testing.T) {
	p := Property{Tags: []string{"Cashflow", "Below Market"}}
	if !p.HasTag("Cashflow") {
		t.Fatalf("expected Cashflow tag")
	}
	if p.HasTag("Value-Buy") {
		t.Fatalf("unexpected Value-Buy tag")
	}
}

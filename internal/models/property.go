package models

import "time"

// Property is one investment listing in the catalog
type Property struct {
	// Listing basics
	ID      string  `gorm:"type:varchar(32);primaryKey" json:"id" yaml:"id"`
	Address string  `gorm:"type:text;not null" json:"address" yaml:"address"`
	Image   string  `gorm:"type:text" json:"image,omitempty" yaml:"image"`
	Price   float64 `gorm:"type:decimal(14,2);not null;index" json:"price" yaml:"price"`

	Beds  float64 `gorm:"type:decimal(4,1);index" json:"beds" yaml:"beds"`
	Baths float64 `gorm:"type:decimal(4,1);index" json:"baths" yaml:"baths"`
	Sqft  int     `gorm:"type:int;not null" json:"sqft" yaml:"sqft"`

	// Investment figures (percent values, 5.8 == 5.8%)
	CapRate            float64 `gorm:"type:decimal(6,2);index" json:"cap_rate" yaml:"cap_rate"`
	CashOnCash         float64 `gorm:"type:decimal(6,2);index" json:"cash_on_cash" yaml:"cash_on_cash"`
	YearlyAppreciation float64 `gorm:"type:decimal(6,2)" json:"yearly_appreciation" yaml:"yearly_appreciation"`

	Tags            []string  `gorm:"type:json;serializer:json" json:"tags" yaml:"tags"`
	RentEstimate    float64   `gorm:"type:decimal(12,2)" json:"rent_estimate" yaml:"rent_estimate"`
	RepairsEstimate float64   `gorm:"type:decimal(12,2)" json:"repairs_estimate" yaml:"repairs_estimate"`
	Financing       Financing `gorm:"embedded;embeddedPrefix:financing_" json:"financing" yaml:"financing"`
	Comps           []Comp    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"comps" yaml:"comps"`

	MarketMetrics MarketMetrics  `gorm:"embedded;embeddedPrefix:market_" json:"market_metrics" yaml:"market_metrics"`
	ROI           ROI            `gorm:"embedded;embeddedPrefix:roi_" json:"roi" yaml:"roi"`
	RentalHistory *RentalHistory `gorm:"embedded;embeddedPrefix:rental_" json:"rental_history,omitempty" yaml:"rental_history"`
	TenantProfile *TenantProfile `gorm:"embedded;embeddedPrefix:tenant_" json:"tenant_profile,omitempty" yaml:"tenant_profile"`

	PropertyTaxes float64      `gorm:"type:decimal(12,2)" json:"property_taxes" yaml:"property_taxes"`
	InsuranceCost float64      `gorm:"type:decimal(12,2)" json:"insurance_cost" yaml:"insurance_cost"`
	Zoning        string       `gorm:"type:varchar(20)" json:"zoning,omitempty" yaml:"zoning"`
	PropertyType  PropertyType `gorm:"type:varchar(20);index" json:"property_type" yaml:"property_type"`

	// Map position
	Lat float64 `gorm:"type:decimal(10,7)" json:"lat" yaml:"lat"`
	Lng float64 `gorm:"type:decimal(10,7)" json:"lng" yaml:"lng"`

	// Status management (logical deletion)
	Status    PropertyStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status" yaml:"status"`
	RemovedAt *time.Time     `gorm:"type:datetime" json:"removed_at,omitempty" yaml:"-"`

	// Order within the catalog
	Position int `gorm:"type:int;not null;default:0;index" json:"-" yaml:"-"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at" yaml:"-"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at" yaml:"-"`
}

// Financing describes the assumed loan for a property.
type Financing struct {
	DownPayment    float64 `gorm:"type:decimal(12,2)" json:"down_payment" yaml:"down_payment"`
	InterestRate   float64 `gorm:"type:decimal(6,3)" json:"interest_rate" yaml:"interest_rate"`
	MonthlyPayment float64 `gorm:"type:decimal(12,2)" json:"monthly_payment" yaml:"monthly_payment"`
}

// Comp is a comparable sale used as a valuation reference.
type Comp struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"-" yaml:"-"`
	PropertyID string  `gorm:"type:varchar(32);not null;index" json:"-" yaml:"-"`
	Address    string  `gorm:"type:text" json:"address" yaml:"address"`
	Price      float64 `gorm:"type:decimal(14,2)" json:"price" yaml:"price"`
	Sqft       int     `gorm:"type:int" json:"sqft" yaml:"sqft"`
	SoldDate   string  `gorm:"type:varchar(10)" json:"sold_date" yaml:"sold_date"` // YYYY-MM-DD
}

// TableName specifies the table name
func (Comp) TableName() string {
	return "property_comps"
}

type AppreciationForecast struct {
	FiveYear float64 `gorm:"type:decimal(6,2)" json:"five_year" yaml:"five_year"`
	Annual   float64 `gorm:"type:decimal(6,2)" json:"annual" yaml:"annual"`
}

type MarketMetrics struct {
	AppreciationForecast AppreciationForecast `gorm:"embedded;embeddedPrefix:forecast_" json:"appreciation_forecast" yaml:"appreciation_forecast"`
	MarketMomentum       float64              `gorm:"type:decimal(6,2)" json:"market_momentum" yaml:"market_momentum"`
	Volatility           Volatility           `gorm:"type:varchar(10)" json:"volatility" yaml:"volatility"`
}

type ROI struct {
	OneYear  float64 `gorm:"type:decimal(6,2)" json:"one_year" yaml:"one_year"`
	FiveYear float64 `gorm:"type:decimal(6,2)" json:"five_year" yaml:"five_year"`
	TenYear  float64 `gorm:"type:decimal(6,2)" json:"ten_year" yaml:"ten_year"`
}

type RentalHistory struct {
	AverageOccupancy       float64 `gorm:"type:decimal(6,2)" json:"average_occupancy" yaml:"average_occupancy"`
	AverageRent            float64 `gorm:"type:decimal(12,2)" json:"average_rent" yaml:"average_rent"`
	HistoricalAppreciation float64 `gorm:"type:decimal(6,2)" json:"historical_appreciation" yaml:"historical_appreciation"`
}

type TenantProfile struct {
	CurrentTenants      int     `gorm:"type:int" json:"current_tenants" yaml:"current_tenants"`
	AverageTenureMonths int     `gorm:"type:int" json:"average_tenure_months" yaml:"average_tenure_months"`
	OccupancyRate       float64 `gorm:"type:decimal(6,2)" json:"occupancy_rate" yaml:"occupancy_rate"`
}

// Volatility is the market volatility band
type Volatility string

const (
	VolatilityLow    Volatility = "Low"
	VolatilityMedium Volatility = "Medium"
	VolatilityHigh   Volatility = "High"
)

// IsValid reports whether v is one of the known levels. Empty is allowed.
func (v Volatility) IsValid() bool {
	switch v {
	case "", VolatilityLow, VolatilityMedium, VolatilityHigh:
		return true
	}
	return false
}

// PropertyType is the kind of building
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "Single Family"
	PropertyTypeMultiFamily  PropertyType = "Multi Family"
	PropertyTypeCommercial   PropertyType = "Commercial"
	PropertyTypeMixedUse     PropertyType = "Mixed Use"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case "", PropertyTypeSingleFamily, PropertyTypeMultiFamily, PropertyTypeCommercial, PropertyTypeMixedUse:
		return true
	}
	return false
}

// PropertyStatus is the lifecycle state of a listing
type PropertyStatus string

const (
	PropertyStatusActive  PropertyStatus = "active"
	PropertyStatusRemoved PropertyStatus = "removed"
)

// TableName specifies the table name
func (Property) TableName() string {
	return "properties"
}

// IsActive reports whether the listing is part of the browsable catalog
func (p *Property) IsActive() bool {
	return p.Status == "" || p.Status == PropertyStatusActive
}

// HasTag reports whether the property carries the given label.
func (p *Property) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

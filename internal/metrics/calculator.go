// Package metrics derives the display-only investment figures shown on
// property cards, the detail view and the comparison table.
//
// All functions are pure. Price and sqft are guaranteed positive by
// models.Property.Validate, which every catalog provider runs on load.
package metrics

import "real-estate-investor/internal/models"

const monthsPerYear = 12

// MonthlyCashFlow is the estimated rent minus the monthly loan payment.
func MonthlyCashFlow(p models.Property) float64 {
	return p.RentEstimate - p.Financing.MonthlyPayment
}

// AnnualCashFlow is MonthlyCashFlow over twelve months.
func AnnualCashFlow(p models.Property) float64 {
	return MonthlyCashFlow(p) * monthsPerYear
}

func PricePerSqft(p models.Property) float64 {
	return p.Price / float64(p.Sqft)
}

// GrossYieldPercent is annualized rent over purchase price, as a percentage.
func GrossYieldPercent(p models.Property) float64 {
	return (p.RentEstimate * monthsPerYear / p.Price) * 100
}

// TotalInvestment is the cash needed up front: down payment plus repairs.
func TotalInvestment(p models.Property) float64 {
	return p.Financing.DownPayment + p.RepairsEstimate
}

// DownPaymentPercent is the down payment as a share of the price.
func DownPaymentPercent(p models.Property) float64 {
	return p.Financing.DownPayment / p.Price * 100
}

// Summary bundles the derived metrics of one property with their display strings.
type Summary struct {
	PropertyID string `json:"property_id"`

	MonthlyCashFlow    float64 `json:"monthly_cash_flow"`
	AnnualCashFlow     float64 `json:"annual_cash_flow"`
	PricePerSqft       float64 `json:"price_per_sqft"`
	GrossYieldPercent  float64 `json:"gross_yield_percent"`
	TotalInvestment    float64 `json:"total_investment"`
	DownPaymentPercent float64 `json:"down_payment_percent"`

	Display Display `json:"display"`
}

// Display holds preformatted strings so every client renders figures identically.
type Display struct {
	Price              string `json:"price"`
	PricePerSqft       string `json:"price_per_sqft"`
	CapRate            string `json:"cap_rate"`
	CashOnCash         string `json:"cash_on_cash"`
	GrossYield         string `json:"gross_yield"`
	MonthlyRent        string `json:"monthly_rent"`
	MonthlyCashFlow    string `json:"monthly_cash_flow"`
	AnnualCashFlow     string `json:"annual_cash_flow"`
	TotalInvestment    string `json:"total_investment"`
	DownPayment        string `json:"down_payment"`
	RepairsEstimate    string `json:"repairs_estimate"`
	YearlyAppreciation string `json:"yearly_appreciation"`
	MarketMomentum     string `json:"market_momentum"`
	FiveYearForecast   string `json:"five_year_forecast"`
}

// Summarize computes every derived metric for p.
func Summarize(p models.Property) Summary {
	s := Summary{
		PropertyID:         p.ID,
		MonthlyCashFlow:    MonthlyCashFlow(p),
		AnnualCashFlow:     AnnualCashFlow(p),
		PricePerSqft:       PricePerSqft(p),
		GrossYieldPercent:  GrossYieldPercent(p),
		TotalInvestment:    TotalInvestment(p),
		DownPaymentPercent: DownPaymentPercent(p),
	}
	s.Display = Display{
		Price:              FormatPrice(p.Price),
		PricePerSqft:       FormatPrice(s.PricePerSqft),
		CapRate:            FormatPercent(p.CapRate),
		CashOnCash:         FormatPercent(p.CashOnCash),
		GrossYield:         FormatPercent(s.GrossYieldPercent),
		MonthlyRent:        FormatPrice(p.RentEstimate),
		MonthlyCashFlow:    FormatPrice(s.MonthlyCashFlow),
		AnnualCashFlow:     FormatPrice(s.AnnualCashFlow),
		TotalInvestment:    FormatPrice(s.TotalInvestment),
		DownPayment:        FormatPrice(p.Financing.DownPayment),
		RepairsEstimate:    FormatPrice(p.RepairsEstimate),
		YearlyAppreciation: FormatPercent(p.YearlyAppreciation),
		MarketMomentum:     FormatNumber(p.MarketMetrics.MarketMomentum),
		FiveYearForecast:   FormatPercent(p.MarketMetrics.AppreciationForecast.FiveYear),
	}
	return s
}

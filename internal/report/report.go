// Package report lays out the side-by-side comparison table for the
// properties in a comparison set.
package report

import (
	"real-estate-investor/internal/metrics"
	"real-estate-investor/internal/models"
	"time"
)

// Column identifies one compared property.
type Column struct {
	PropertyID string `json:"property_id"`
	Address    string `json:"address"`
	Image      string `json:"image,omitempty"`
}

// Row is one metric across every column. Best is the index of the most
// favourable column, or -1 when all values tie or there is nothing to rank.
type Row struct {
	Label  string    `json:"label"`
	Values []string  `json:"values"`
	Raw    []float64 `json:"raw"`
	Best   int       `json:"best"`
}

type Report struct {
	Columns     []Column  `json:"columns"`
	Rows        []Row     `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
}

type direction int

const (
	higherIsBetter direction = iota
	lowerIsBetter
)

type metricDef struct {
	label  string
	value  func(models.Property) float64
	format func(float64) string
	dir    direction
}

var rows = []metricDef{
	{"Price", func(p models.Property) float64 { return p.Price }, metrics.FormatPrice, lowerIsBetter},
	{"Price/sqft", metrics.PricePerSqft, metrics.FormatPrice, lowerIsBetter},
	{"Cap Rate", func(p models.Property) float64 { return p.CapRate }, metrics.FormatPercent, higherIsBetter},
	{"Cash on Cash", func(p models.Property) float64 { return p.CashOnCash }, metrics.FormatPercent, higherIsBetter},
	{"Monthly Rent", func(p models.Property) float64 { return p.RentEstimate }, metrics.FormatPrice, higherIsBetter},
	{"Cash Flow", metrics.MonthlyCashFlow, metrics.FormatPrice, higherIsBetter},
	{"Down Payment", func(p models.Property) float64 { return p.Financing.DownPayment }, metrics.FormatPrice, lowerIsBetter},
	{"Repairs Needed", func(p models.Property) float64 { return p.RepairsEstimate }, metrics.FormatPrice, lowerIsBetter},
	{"Yearly Appreciation", func(p models.Property) float64 { return p.YearlyAppreciation }, metrics.FormatPercent, higherIsBetter},
	{"Market Momentum", func(p models.Property) float64 { return p.MarketMetrics.MarketMomentum }, metrics.FormatNumber, higherIsBetter},
	{"5yr Appreciation Forecast", func(p models.Property) float64 { return p.MarketMetrics.AppreciationForecast.FiveYear }, metrics.FormatPercent, higherIsBetter},
}

// Build renders the comparison table for props, in the order given.
func Build(props []models.Property, now time.Time) Report {
	r := Report{
		Columns:     make([]Column, len(props)),
		Rows:        make([]Row, 0, len(rows)),
		GeneratedAt: now,
	}
	for i, p := range props {
		r.Columns[i] = Column{PropertyID: p.ID, Address: p.Address, Image: p.Image}
	}

	for _, def := range rows {
		row := Row{
			Label:  def.label,
			Values: make([]string, len(props)),
			Raw:    make([]float64, len(props)),
		}
		for i, p := range props {
			row.Raw[i] = def.value(p)
			row.Values[i] = def.format(row.Raw[i])
		}
		row.Best = best(row.Raw, def.dir)
		r.Rows = append(r.Rows, row)
	}
	return r
}

func best(values []float64, dir direction) int {
	if len(values) < 2 {
		return -1
	}
	idx := 0
	allEqual := true
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			allEqual = false
		}
		if dir == higherIsBetter && values[i] > values[idx] {
			idx = i
		}
		if dir == lowerIsBetter && values[i] < values[idx] {
			idx = i
		}
	}
	if allEqual {
		return -1
	}
	return idx
}

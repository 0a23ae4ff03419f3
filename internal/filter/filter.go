// Package filter narrows and orders the catalog for the browsing views:
// the price/beds/baths bar, the investment strategy panel and the
// address search box.
package filter

import (
	"errors"
	"fmt"
	"real-estate-investor/internal/metrics"
	"real-estate-investor/internal/models"
	"sort"
	"strings"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrInvalidParam    = errors.New("invalid filter parameter")
)

// Strategy is an investment preset from the strategy panel.
type Strategy string

const (
	StrategyCustom       Strategy = "custom"
	StrategyCashflow     Strategy = "cashflow"
	StrategyAppreciation Strategy = "appreciation"
	StrategyValueAdd     Strategy = "value-add"
)

// Thresholds used by the presets, matching the panel's default slider values.
const (
	DefaultMinCapRate      = 5.0
	DefaultMinCashOnCash   = 8.0
	DefaultMinAppreciation = 6.0
)

// Tags that mark a value-add opportunity.
const (
	TagValueBuy   = "Value-Buy"
	TagFixAndFlip = "Fix and Flip"
)

// ParseStrategy maps a query value to a Strategy. Empty means custom.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyCustom:
		return StrategyCustom, nil
	case StrategyCashflow:
		return StrategyCashflow, nil
	case StrategyAppreciation:
		return StrategyAppreciation, nil
	case StrategyValueAdd:
		return StrategyValueAdd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Criteria collects every browsing filter. Nil pointers mean "no limit".
type Criteria struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	MinBeds  *float64
	MinBaths *float64
	Tags     []string

	Strategy           Strategy
	MinCapRate         *float64
	MinCashOnCash      *float64
	MinAppreciation    *float64
	InvestableCash     *float64
	DownPaymentPercent *float64

	Sort SortKey
}

// Match reports whether p satisfies every criterion.
func (c Criteria) Match(p models.Property) bool {
	if q := strings.TrimSpace(c.Query); q != "" {
		if !strings.Contains(strings.ToLower(p.Address), strings.ToLower(q)) {
			return false
		}
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinBeds != nil && p.Beds < *c.MinBeds {
		return false
	}
	if c.MinBaths != nil && p.Baths < *c.MinBaths {
		return false
	}
	for _, tag := range c.Tags {
		if !p.HasTag(tag) {
			return false
		}
	}

	if c.MinCapRate != nil && p.CapRate < *c.MinCapRate {
		return false
	}
	if c.MinCashOnCash != nil && p.CashOnCash < *c.MinCashOnCash {
		return false
	}
	if c.MinAppreciation != nil && p.YearlyAppreciation < *c.MinAppreciation {
		return false
	}
	if c.InvestableCash != nil && metrics.TotalInvestment(p) > *c.InvestableCash {
		return false
	}
	if c.DownPaymentPercent != nil && metrics.DownPaymentPercent(p) > *c.DownPaymentPercent {
		return false
	}

	return matchStrategy(c.Strategy, p)
}

func matchStrategy(s Strategy, p models.Property) bool {
	switch s {
	case StrategyCashflow:
		return p.CashOnCash >= DefaultMinCashOnCash && metrics.MonthlyCashFlow(p) > 0
	case StrategyAppreciation:
		return p.YearlyAppreciation >= DefaultMinAppreciation
	case StrategyValueAdd:
		return p.HasTag(TagValueBuy) || p.HasTag(TagFixAndFlip) || p.RepairsEstimate > 0
	default:
		return true
	}
}

// Apply returns the matching properties, sorted by c.Sort. props is not modified.
func Apply(props []models.Property, c Criteria) []models.Property {
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	Sort(out, c.Sort)
	return out
}

// SortKey selects the list ordering. The zero value keeps catalog order.
type SortKey string

const (
	SortCatalog          SortKey = ""
	SortPriceAsc         SortKey = "price_asc"
	SortPriceDesc        SortKey = "price_desc"
	SortCapRateDesc      SortKey = "cap_rate_desc"
	SortCashOnCashDesc   SortKey = "cash_on_cash_desc"
	SortGrossYieldDesc   SortKey = "gross_yield_desc"
	SortCashFlowDesc     SortKey = "cash_flow_desc"
	SortAppreciationDesc SortKey = "appreciation_desc"
)

// ParseSort validates a sort query value.
func ParseSort(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortCatalog, SortPriceAsc, SortPriceDesc, SortCapRateDesc, SortCashOnCashDesc,
		SortGrossYieldDesc, SortCashFlowDesc, SortAppreciationDesc:
		return k, nil
	}
	return "", fmt.Errorf("%w: sort=%q", ErrInvalidParam, s)
}

// Sort orders props in place. Ties keep their catalog order.
func Sort(props []models.Property, key SortKey) {
	var less func(a, b models.Property) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b models.Property) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b models.Property) bool { return a.Price > b.Price }
	case SortCapRateDesc:
		less = func(a, b models.Property) bool { return a.CapRate > b.CapRate }
	case SortCashOnCashDesc:
		less = func(a, b models.Property) bool { return a.CashOnCash > b.CashOnCash }
	case SortGrossYieldDesc:
		less = func(a, b models.Property) bool { return metrics.GrossYieldPercent(a) > metrics.GrossYieldPercent(b) }
	case SortCashFlowDesc:
		less = func(a, b models.Property) bool { return metrics.MonthlyCashFlow(a) > metrics.MonthlyCashFlow(b) }
	case SortAppreciationDesc:
		less = func(a, b models.Property) bool { return a.YearlyAppreciation > b.YearlyAppreciation }
	default:
		return
	}
	sort.SliceStable(props, func(i, j int) bool { return less(props[i], props[j]) })
}

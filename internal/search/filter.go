package search

import (
	"fmt"
	"real-estate-investor/internal/filter"
	"strconv"
	"strings"
)

var (
	// SearchableAttributes matches the catalog's own query, which looks at
	// the address only. Tags and type are reached through filters.
	SearchableAttributes = []string{
		"address",
	}

	FilterableAttributes = []string{
		"id",
		"price",
		"beds",
		"baths",
		"cap_rate",
		"cash_on_cash",
		"yearly_appreciation",
		"tags",
		"repairs_estimate",
		"property_type",
		"monthly_cash_flow",
		"total_investment",
		"down_payment_percent",
	}

	SortableAttributes = []string{
		"price",
		"cap_rate",
		"cash_on_cash",
		"gross_yield",
		"monthly_cash_flow",
		"yearly_appreciation",
	}
)

// BuildFilter translates criteria into a Meilisearch filter expression.
// The free-text query is not part of it; it goes into the search query.
func BuildFilter(c filter.Criteria) string {
	var filters []string

	addMin := func(attr string, v *float64) {
		if v != nil {
			filters = append(filters, fmt.Sprintf("%s >= %s", attr, num(*v)))
		}
	}
	addMax := func(attr string, v *float64) {
		if v != nil {
			filters = append(filters, fmt.Sprintf("%s <= %s", attr, num(*v)))
		}
	}

	addMin("price", c.MinPrice)
	addMax("price", c.MaxPrice)
	addMin("beds", c.MinBeds)
	addMin("baths", c.MinBaths)

	for _, tag := range c.Tags {
		filters = append(filters, fmt.Sprintf("tags = %s", quote(tag)))
	}

	addMin("cap_rate", c.MinCapRate)
	addMin("cash_on_cash", c.MinCashOnCash)
	addMin("yearly_appreciation", c.MinAppreciation)
	addMax("total_investment", c.InvestableCash)
	addMax("down_payment_percent", c.DownPaymentPercent)

	switch c.Strategy {
	case filter.StrategyCashflow:
		filters = append(filters,
			fmt.Sprintf("cash_on_cash >= %s", num(filter.DefaultMinCashOnCash)),
			"monthly_cash_flow > 0",
		)
	case filter.StrategyAppreciation:
		filters = append(filters, fmt.Sprintf("yearly_appreciation >= %s", num(filter.DefaultMinAppreciation)))
	case filter.StrategyValueAdd:
		filters = append(filters, fmt.Sprintf("(tags = %s OR tags = %s OR repairs_estimate > 0)",
			quote(filter.TagValueBuy), quote(filter.TagFixAndFlip)))
	}

	return strings.Join(filters, " AND ")
}

// BuildSort maps a list ordering onto index sort rules.
func BuildSort(key filter.SortKey) []string {
	switch key {
	case filter.SortPriceAsc:
		return []string{"price:asc"}
	case filter.SortPriceDesc:
		return []string{"price:desc"}
	case filter.SortCapRateDesc:
		return []string{"cap_rate:desc"}
	case filter.SortCashOnCashDesc:
		return []string{"cash_on_cash:desc"}
	case filter.SortGrossYieldDesc:
		return []string{"gross_yield:desc"}
	case filter.SortCashFlowDesc:
		return []string{"monthly_cash_flow:desc"}
	case filter.SortAppreciationDesc:
		return []string{"yearly_appreciation:desc"}
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

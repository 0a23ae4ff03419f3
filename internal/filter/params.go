package filter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// FromValues builds Criteria from list query parameters:
//
//	q, min_price, max_price, beds, baths, tags (comma separated), strategy,
//	min_cap_rate, min_cash_on_cash, min_appreciation, investable_cash,
//	down_payment_percent, sort
//
// "any" is accepted for beds and baths, as sent by the filter bar selects.
func FromValues(v url.Values) (Criteria, error) {
	var c Criteria
	var err error

	c.Query = strings.TrimSpace(v.Get("q"))

	floats := []struct {
		key string
		dst **float64
	}{
		{"min_price", &c.MinPrice},
		{"max_price", &c.MaxPrice},
		{"beds", &c.MinBeds},
		{"baths", &c.MinBaths},
		{"min_cap_rate", &c.MinCapRate},
		{"min_cash_on_cash", &c.MinCashOnCash},
		{"min_appreciation", &c.MinAppreciation},
		{"investable_cash", &c.InvestableCash},
		{"down_payment_percent", &c.DownPaymentPercent},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(v.Get(f.key))
		if raw == "" || strings.EqualFold(raw, "any") {
			continue
		}
		val, parseErr := strconv.ParseFloat(strings.TrimSuffix(raw, "+"), 64)
		if parseErr != nil {
			return Criteria{}, fmt.Errorf("%w: %s=%q", ErrInvalidParam, f.key, raw)
		}
		*f.dst = &val
	}

	if tags := strings.TrimSpace(v.Get("tags")); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.Tags = append(c.Tags, t)
			}
		}
	}

	if c.Strategy, err = ParseStrategy(v.Get("strategy")); err != nil {
		return Criteria{}, err
	}
	if c.Sort, err = ParseSort(v.Get("sort")); err != nil {
		return Criteria{}, err
	}

	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// Validate rejects negative or non-finite bounds and an inverted price range.
func (c Criteria) Validate() error {
	bounds := []struct {
		key string
		val *float64
	}{
		{"min_price", c.MinPrice},
		{"max_price", c.MaxPrice},
		{"beds", c.MinBeds},
		{"baths", c.MinBaths},
		{"min_cap_rate", c.MinCapRate},
		{"min_cash_on_cash", c.MinCashOnCash},
		{"min_appreciation", c.MinAppreciation},
		{"investable_cash", c.InvestableCash},
		{"down_payment_percent", c.DownPaymentPercent},
	}
	for _, b := range bounds {
		if b.val == nil {
			continue
		}
		if v := *b.val; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidParam, b.key, v)
		}
	}

	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return fmt.Errorf("%w: min_price %.0f exceeds max_price %.0f", ErrInvalidParam, *c.MinPrice, *c.MaxPrice)
	}
	return nil
}

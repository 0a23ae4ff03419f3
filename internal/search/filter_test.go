package search

import (
	"reflect"
	"strings"
	"testing"

	"real-estate-investor/internal/filter"
	"real-estate-investor/internal/models"
)

func f(v float64) *float64 { return &v }

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name string
		c    filter.Criteria
		want string
	}{
		{"empty", filter.Criteria{Query: "austin"}, ""},
		{"price range", filter.Criteria{MinPrice: f(200000), MaxPrice: f(750000)}, "price >= 200000 AND price <= 750000"},
		{"beds and baths", filter.Criteria{MinBeds: f(3), MinBaths: f(1.5)}, "beds >= 3 AND baths >= 1.5"},
		{"tags", filter.Criteria{Tags: []string{"Cashflow", "Owner's Pick"}}, `tags = 'Cashflow' AND tags = 'Owner\'s Pick'`},
		{"investor thresholds", filter.Criteria{MinCapRate: f(5), InvestableCash: f(120000)}, "cap_rate >= 5 AND total_investment <= 120000"},
		{"cashflow strategy", filter.Criteria{Strategy: filter.StrategyCashflow}, "cash_on_cash >= 8 AND monthly_cash_flow > 0"},
		{"appreciation strategy", filter.Criteria{Strategy: filter.StrategyAppreciation}, "yearly_appreciation >= 6"},
		{"value-add strategy", filter.Criteria{Strategy: filter.StrategyValueAdd}, "(tags = 'Value-Buy' OR tags = 'Fix and Flip' OR repairs_estimate > 0)"},
	}
	for _, tt := range tests {
		if got := BuildFilter(tt.c); got != tt.want {
			t.Fatalf("%s: got=%q want=%q", tt.name, got, tt.want)
		}
	}
}

func TestBuildSort(t *testing.T) {
	if got := BuildSort(filter.SortCatalog); got != nil {
		t.Fatalf("catalog order should not sort, got %v", got)
	}
	if got := BuildSort(filter.SortCashFlowDesc); !reflect.DeepEqual(got, []string{"monthly_cash_flow:desc"}) {
		t.Fatalf("got %v", got)
	}
	for _, key := range []filter.SortKey{
		filter.SortPriceAsc, filter.SortPriceDesc, filter.SortCapRateDesc, filter.SortCashOnCashDesc,
		filter.SortGrossYieldDesc, filter.SortCashFlowDesc, filter.SortAppreciationDesc,
	} {
		rules := BuildSort(key)
		if len(rules) != 1 {
			t.Fatalf("%s: rules=%v", key, rules)
		}
		attr, _, _ := strings.Cut(rules[0], ":")
		found := false
		for _, s := range SortableAttributes {
			if s == attr {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s sorts on %q which is not sortable", key, attr)
		}
	}
}

func TestNewDocument(t *testing.T) {
	p := models.Property{
		ID: "1", Address: "123 Investment Ave", Price: 750000, Sqft: 2500,
		RentEstimate: 4200, RepairsEstimate: 15000,
		Financing: models.Financing{DownPayment: 150000, MonthlyPayment: 3800},
	}
	doc := NewDocument(p)
	if doc.MonthlyCashFlow != 400 || doc.TotalInvestment != 165000 {
		t.Fatalf("doc=%+v", doc)
	}
	if doc.DownPaymentPercent != 20 {
		t.Fatalf("down_payment_percent=%v", doc.DownPaymentPercent)
	}
	if doc.Tags == nil {
		t.Fatal("tags should never be null in the index")
	}
}

func TestHitID(t *testing.T) {
	if got := hitID(map[string]interface{}{"id": "7"}); got != "7" {
		t.Fatalf("got %q", got)
	}
	if got := hitID("nope"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestSearchableAttributes(t *testing.T) {
	// full-text search covers the same fields as the catalog's query match
	if !reflect.DeepEqual(SearchableAttributes, []string{"address"}) {
		t.Fatalf("searchable=%v want=[address]", SearchableAttributes)
	}
	for _, attr := range []string{"tags", "property_type"} {
		found := false
		for _, a := range FilterableAttributes {
			found = found || a == attr
		}
		if !found {
			t.Fatalf("%s should stay filterable", attr)
		}
	}
}

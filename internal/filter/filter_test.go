package filter

import (
	"errors"
	"math"
	"net/url"
	"reflect"
	"testing"

	"real-estate-investor/internal/models"
)

func f(v float64) *float64 { return &v }

func fixtures() []models.Property {
	return []models.Property{
		{
			ID: "1", Address: "123 Investment Ave, Austin, TX 78701",
			Price: 750000, Beds: 4, Baths: 3, Sqft: 2500,
			CapRate: 5.8, CashOnCash: 8.2, YearlyAppreciation: 4.5,
			Tags: []string{"High Growth Market", "Value-Buy"}, RentEstimate: 4200, RepairsEstimate: 15000,
			Financing: models.Financing{DownPayment: 150000, MonthlyPayment: 3800},
		},
		{
			ID: "2", Address: "456 Cashflow St, Austin, TX 78702",
			Price: 550000, Beds: 3, Baths: 2, Sqft: 1800,
			CapRate: 7.2, CashOnCash: 9.5, YearlyAppreciation: 3.8,
			Tags: []string{"Cashflow"}, RentEstimate: 3900,
			Financing: models.Financing{DownPayment: 110000, MonthlyPayment: 2950},
		},
		{
			ID: "3", Address: "333 Rainey St, Austin, TX 78701",
			Price: 925000, Beds: 2, Baths: 2, Sqft: 1350,
			CapRate: 4.6, CashOnCash: 5.4, YearlyAppreciation: 6.8,
			RentEstimate: 4900,
			Financing: models.Financing{DownPayment: 185000, MonthlyPayment: 4650},
		},
		{
			ID: "4", Address: "1010 Flip Rd, Round Rock, TX 78664",
			Price: 385000, Beds: 3, Baths: 1.5, Sqft: 1400,
			CapRate: 6.9, CashOnCash: 11.3, YearlyAppreciation: 3.1,
			Tags: []string{"Fix and Flip"}, RentEstimate: 2000, RepairsEstimate: 45000,
			Financing: models.Financing{DownPayment: 77000, MonthlyPayment: 2150},
		},
	}
}

func ids(props []models.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria keeps catalog order", Criteria{}, []string{"1", "2", "3", "4"}},
		{"query matches zip", Criteria{Query: "78701"}, []string{"1", "3"}},
		{"query is case-insensitive", Criteria{Query: "round rock"}, []string{"4"}},
		{"price range inclusive", Criteria{MinPrice: f(550000), MaxPrice: f(750000)}, []string{"1", "2"}},
		{"beds N+", Criteria{MinBeds: f(3)}, []string{"1", "2", "4"}},
		{"baths N+", Criteria{MinBaths: f(2)}, []string{"1", "2", "3"}},
		{"tags all required", Criteria{Tags: []string{"Value-Buy", "High Growth Market"}}, []string{"1"}},
		{"min cap rate", Criteria{MinCapRate: f(6)}, []string{"2", "4"}},
		{"min appreciation", Criteria{MinAppreciation: f(4)}, []string{"1", "3"}},
		{"investable cash covers down payment plus repairs", Criteria{InvestableCash: f(122000)}, []string{"2", "4"}},
		{"investable cash below every total", Criteria{InvestableCash: f(100000)}, []string{}},
		{"down payment percent", Criteria{DownPaymentPercent: f(20)}, []string{"1", "2", "3", "4"}},
		{"down payment percent tight", Criteria{DownPaymentPercent: f(19.99)}, []string{}},
		{"cashflow strategy", Criteria{Strategy: StrategyCashflow}, []string{"1", "2"}},
		{"appreciation strategy", Criteria{Strategy: StrategyAppreciation}, []string{"3"}},
		{"value-add strategy", Criteria{Strategy: StrategyValueAdd}, []string{"1", "4"}},
		{"sort by price", Criteria{Sort: SortPriceAsc}, []string{"4", "2", "1", "3"}},
		{"sort by cap rate", Criteria{Sort: SortCapRateDesc}, []string{"2", "4", "1", "3"}},
		{"sort by cash flow", Criteria{Sort: SortCashFlowDesc}, []string{"2", "1", "3", "4"}},
	}
	for _, tt := range tests {
		got := ids(Apply(fixtures(), tt.c))
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%s: got=%v want=%v", tt.name, got, tt.want)
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	props := fixtures()
	Apply(props, Criteria{Sort: SortPriceDesc})
	if got := ids(props); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("input reordered: %v", got)
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"":             StrategyCustom,
		"custom":       StrategyCustom,
		"Cashflow":     StrategyCashflow,
		"appreciation": StrategyAppreciation,
		" value-add ":  StrategyValueAdd,
	} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q)=%q,%v want=%q", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("yolo"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err=%v want ErrUnknownStrategy", err)
	}
}

func TestFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("q", " austin ")
	v.Set("min_price", "200000")
	v.Set("max_price", "800000")
	v.Set("beds", "3+")
	v.Set("baths", "any")
	v.Set("tags", "Cashflow, Value-Buy,")
	v.Set("strategy", "cashflow")
	v.Set("sort", "price_desc")

	c, err := FromValues(v)
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	if c.Query != "austin" || *c.MinPrice != 200000 || *c.MaxPrice != 800000 {
		t.Fatalf("criteria=%+v", c)
	}
	if c.MinBeds == nil || *c.MinBeds != 3 || c.MinBaths != nil {
		t.Fatalf("beds=%v baths=%v", c.MinBeds, c.MinBaths)
	}
	if !reflect.DeepEqual(c.Tags, []string{"Cashflow", "Value-Buy"}) {
		t.Fatalf("tags=%v", c.Tags)
	}
	if c.Strategy != StrategyCashflow || c.Sort != SortPriceDesc {
		t.Fatalf("strategy=%q sort=%q", c.Strategy, c.Sort)
	}
}

func TestFromValues_Errors(t *testing.T) {
	bad := []url.Values{
		{"min_price": {"cheap"}},
		{"beds": {"-1"}},
		{"min_price": {"900000"}, "max_price": {"100000"}},
		{"min_price": {"NaN"}},
		{"max_price": {"nan"}, "min_price": {"500000"}},
		{"investable_cash": {"+Inf"}},
		{"min_cap_rate": {"-Inf"}},
		{"strategy": {"moon"}},
		{"sort": {"random"}},
	}
	for _, v := range bad {
		_, err := FromValues(v)
		if !errors.Is(err, ErrInvalidParam) && !errors.Is(err, ErrUnknownStrategy) {
			t.Fatalf("FromValues(%v) err=%v", v, err)
		}
	}
}

func TestCriteriaValidate(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name string
		c    Criteria
		ok   bool
	}{
		{"empty", Criteria{}, true},
		{"zero bounds", Criteria{MinPrice: f(0), InvestableCash: f(0)}, true},
		{"equal price range", Criteria{MinPrice: f(500000), MaxPrice: f(500000)}, true},
		{"nan min price", Criteria{MinPrice: &nan}, false},
		{"nan max price skips range check", Criteria{MinPrice: f(900000), MaxPrice: &nan}, false},
		{"infinite down payment percent", Criteria{DownPaymentPercent: &inf}, false},
		{"negative beds", Criteria{MinBeds: f(-1)}, false},
		{"inverted price range", Criteria{MinPrice: f(2), MaxPrice: f(1)}, false},
	}
	for _, tt := range tests {
		err := tt.c.Validate()
		if tt.ok && err != nil {
			t.Fatalf("%s: err=%v want=nil", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidParam) {
			t.Fatalf("%s: err=%v want=ErrInvalidParam", tt.name, err)
		}
	}
}

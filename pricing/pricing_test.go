package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-ordering-api/models"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "pizza with one addon",
			lines:    []Line{{UnitPrice: models.MustParseMoney("16.00"), Quantity: 2, AddonsCount: 1}},
			subtotal: "36.00",
			tax:      "2.88",
			total:    "38.88",
		},
		{
			name: "several lines",
			lines: []Line{
				{UnitPrice: models.MustParseMoney("18.50"), Quantity: 1},
				{UnitPrice: models.MustParseMoney("9.50"), Quantity: 3, AddonsCount: 2},
			},
			subtotal: "59.00",
			tax:      "4.72",
			total:    "63.72",
		},
		{
			name:     "tax rounds to the nearest cent",
			lines:    []Line{{UnitPrice: models.MustParseMoney("0.19"), Quantity: 1}},
			subtotal: "0.19",
			tax:      "0.02",
			total:    "0.21",
		},
		{
			name:     "empty cart",
			lines:    nil,
			subtotal: "0.00",
			tax:      "0.00",
			total:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Compute(tt.lines, DefaultRules())
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if q.Subtotal.String() != tt.subtotal {
				t.Errorf("subtotal = %s, want %s", q.Subtotal, tt.subtotal)
			}
			if q.Tax.String() != tt.tax {
				t.Errorf("tax = %s, want %s", q.Tax, tt.tax)
			}
			if q.Total.String() != tt.total {
				t.Errorf("total = %s, want %s", q.Total, tt.total)
			}
			if len(q.LineTotals) != len(tt.lines) {
				t.Errorf("got %d line totals, want %d", len(q.LineTotals), len(tt.lines))
			}
		})
	}
}

func TestComputeRejectsBadLines(t *testing.T) {
	bad := []Line{
		{UnitPrice: -1, Quantity: 1},
		{UnitPrice: 100, Quantity: 0},
		{UnitPrice: 100, Quantity: 1, AddonsCount: -1},
	}
	for _, l := range bad {
		if _, err := Compute([]Line{l}, DefaultRules()); err == nil {
			t.Errorf("Compute(%+v) expected error", l)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	lines := []Line{
		{UnitPrice: models.MustParseMoney("12.00"), Quantity: 3, AddonsCount: 2},
		{UnitPrice: models.MustParseMoney("16.00"), Quantity: 1},
	}
	first, _ := Compute(lines, DefaultRules())
	for i := 0; i < 100; i++ {
		q, _ := Compute(lines, DefaultRules())
		if q.Total != first.Total || q.Tax != first.Tax {
			t.Fatalf("run %d produced %s, first run %s", i, q.Total, first.Total)
		}
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
	r := Rules{AddonSurcharge: 200, TaxRate: decimal.NewFromInt(1)}
	if err := r.Validate(); err == nil {
		t.Error("expected error for 100% tax")
	}
	r = Rules{AddonSurcharge: -5, TaxRate: DefaultTaxRate}
	if err := r.Validate(); err == nil {
		t.Error("expected error for negative surcharge")
	}
}

func TestLinesFromItems(t *testing.T) {
	items := []models.OrderItem{{
		Price:          models.MustParseMoney("16.00"),
		Quantity:       2,
		Customizations: models.Customizations{Addons: []string{"cheese"}},
	}}
	q, err := Compute(LinesFromItems(items), DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if q.Total.String() != "38.88" {
		t.Errorf("total = %s, want 38.88", q.Total)
	}
}

func TestComputeRejectsOverflow(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
	}{
		{"line", []Line{{UnitPrice: 100_000_000_000_000_000, Quantity: 50}}},
		{"addons", []Line{{UnitPrice: 100, Quantity: 1, AddonsCount: math.MaxInt64 / 100}}},
		{"subtotal", []Line{
			{UnitPrice: models.Money(math.MaxInt64 / 4), Quantity: 1},
			{UnitPrice: models.Money(math.MaxInt64 / 4), Quantity: 1},
			{UnitPrice: models.Money(math.MaxInt64 / 4), Quantity: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Compute(tt.lines, DefaultRules())
			if !errors.Is(err, models.ErrAmountOutOfRange) {
				t.Fatalf("err = %v, want ErrAmountOutOfRange", err)
			}
			if q.Total != 0 {
				t.Errorf("total = %s on error", q.Total)
			}
		})
	}
}

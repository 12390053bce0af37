// Package pricing computes order totals. It is pure: no storage, no clock,
// and all arithmetic is done in integer cents.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"restaurant-ordering-api/models"
)

var (
	DefaultAddonSurcharge = models.Money(200)
	DefaultTaxRate        = decimal.RequireFromString("0.08")
)

// maxSubtotal leaves room for tax, which is always below the subtotal.
const maxSubtotal = models.Money(math.MaxInt64 / 2)

// Rules are the store-wide pricing constants.
type Rules struct {
	AddonSurcharge models.Money
	TaxRate        decimal.Decimal
}

func DefaultRules() Rules {
	return Rules{AddonSurcharge: DefaultAddonSurcharge, TaxRate: DefaultTaxRate}
}

func (r Rules) Validate() error {
	if r.AddonSurcharge < 0 {
		return errors.New("addon surcharge must not be negative")
	}
	if r.TaxRate.IsNegative() || r.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %s must be in [0, 1)", r.TaxRate)
	}
	return nil
}

type Line struct {
	UnitPrice   models.Money
	Quantity    int
	AddonsCount int
}

type Quote struct {
	LineTotals []models.Money
	Subtotal   models.Money
	Tax        models.Money
	Total      models.Money
}

// LineTotal is (unitPrice + addons*surcharge) * quantity.
func (r Rules) LineTotal(l Line) (models.Money, error) {
	if l.UnitPrice < 0 {
		return 0, fmt.Errorf("unit price %s is negative", l.UnitPrice)
	}
	if l.Quantity < 1 {
		return 0, fmt.Errorf("quantity %d must be at least 1", l.Quantity)
	}
	if l.AddonsCount < 0 {
		return 0, fmt.Errorf("addons count %d is negative", l.AddonsCount)
	}
	unit := decimal.NewFromInt(int64(l.AddonsCount)).
		Mul(decimal.NewFromInt(int64(r.AddonSurcharge))).
		Add(decimal.NewFromInt(int64(l.UnitPrice)))
	total := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
	if total.GreaterThan(decimal.NewFromInt(int64(maxSubtotal))) {
		return 0, fmt.Errorf("line total %s: %w", total.Shift(-2), models.ErrAmountOutOfRange)
	}
	return models.Money(total.IntPart()), nil
}

// Tax rounds subtotal*rate to the nearest cent, halves away from zero.
func (r Rules) Tax(subtotal models.Money) models.Money {
	cents := decimal.NewFromInt(int64(subtotal)).Mul(r.TaxRate).Round(0)
	return models.Money(cents.IntPart())
}

// Compute prices an ordered list of lines. The same input always yields the
// same quote.
func Compute(lines []Line, rules Rules) (Quote, error) {
	q := Quote{LineTotals: make([]models.Money, 0, len(lines))}
	for i, l := range lines {
		total, err := rules.LineTotal(l)
		if err != nil {
			return Quote{}, fmt.Errorf("line %d: %w", i, err)
		}
		if total > maxSubtotal-q.Subtotal {
			return Quote{}, fmt.Errorf("subtotal: %w", models.ErrAmountOutOfRange)
		}
		q.LineTotals = append(q.LineTotals, total)
		q.Subtotal += total
	}
	q.Tax = rules.Tax(q.Subtotal)
	q.Total = q.Subtotal + q.Tax
	return q, nil
}

// LinesFromItems rebuilds pricing input from stored order snapshots.
func LinesFromItems(items []models.OrderItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			UnitPrice:   it.Price,
			Quantity:    it.Quantity,
			AddonsCount: len(it.Customizations.Addons),
		})
	}
	return lines
}

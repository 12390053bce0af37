// Package report renders orders for people: plain-text receipts for
// customers and spreadsheet exports for the admin panel.
package report

import (
	"fmt"
	"io"
	"strings"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pricing"
)

const (
	receiptWidth      = 40
	receiptDateLayout = "2006-01-02 15:04"
)

// WriteReceipt writes a printable receipt. Line totals are recomputed from
// the snapshot with the same rules that priced the order.
func WriteReceipt(w io.Writer, restaurant string, order *models.Order, rules pricing.Rules) error {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)
	amount := func(label string, m models.Money) {
		fmt.Fprintf(&b, "%-*s%*s\n", receiptWidth-12, label, 12, m)
	}

	if restaurant != "" {
		fmt.Fprintf(&b, "%s\n", restaurant)
	}
	fmt.Fprintf(&b, "Bill No: %s\n", order.BillNumber)
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.Format(receiptDateLayout))
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	if order.CouponNumber != "" {
		fmt.Fprintf(&b, "Coupon: %s\n", order.CouponNumber)
	}
	b.WriteString(rule + "\n")

	for i, it := range order.Items {
		c := it.Customizations
		total, err := rules.LineTotal(pricing.Line{
			UnitPrice:   it.Price,
			Quantity:    it.Quantity,
			AddonsCount: len(c.Addons),
		})
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		amount(fmt.Sprintf("%d x %s", it.Quantity, it.Name), total)
		if c.SpiceLevel != "" {
			fmt.Fprintf(&b, "    Spice: %s\n", c.SpiceLevel)
		}
		if len(c.Addons) > 0 {
			fmt.Fprintf(&b, "    Add-ons: %s (+%s each)\n", strings.Join(c.Addons, ", "), rules.AddonSurcharge)
		}
		if c.SpecialInstructions != "" {
			fmt.Fprintf(&b, "    Note: %s\n", c.SpecialInstructions)
		}
	}

	b.WriteString(rule + "\n")
	amount("Subtotal", order.Subtotal)
	amount(fmt.Sprintf("Tax (%s%%)", rules.TaxRate.Shift(2)), order.Tax)
	amount("Total", order.TotalAmount)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Payment: %s (%s)\n", order.PaymentMethod, order.PaymentStatus)
	if order.SpecialInstructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", order.SpecialInstructions)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"restaurant-ordering-api/models"
)

const (
	OrdersSheet = "Orders"
	ItemsSheet  = "Items"
	exportTime  = "2006-01-02 15:04:05"
)

var (
	orderHeader = []interface{}{
		"Bill No", "Order ID", "Created", "Customer", "Coupon", "Status",
		"Payment", "Method", "Subtotal", "Tax", "Total",
	}
	itemHeader = []interface{}{
		"Bill No", "Item", "Quantity", "Unit Price", "Spice", "Add-ons", "Note",
	}
)

// ExportOrders writes an xlsx workbook with one row per order on the Orders
// sheet and one row per order line on the Items sheet.
func ExportOrders(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRow(f, OrdersSheet, 1, orderHeader); err != nil {
		return err
	}
	if err := writeRow(f, ItemsSheet, 1, itemHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(OrdersSheet, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetRowStyle(ItemsSheet, 1, 1, bold); err != nil {
		return err
	}

	itemRow := 2
	for i, o := range orders {
		err := writeRow(f, OrdersSheet, i+2, []interface{}{
			o.BillNumber,
			o.ID,
			o.CreatedAt.Format(exportTime),
			o.CustomerName,
			o.CouponNumber,
			string(o.Status),
			string(o.PaymentStatus),
			string(o.PaymentMethod),
			o.Subtotal.Decimal().InexactFloat64(),
			o.Tax.Decimal().InexactFloat64(),
			o.TotalAmount.Decimal().InexactFloat64(),
		})
		if err != nil {
			return err
		}
		for _, it := range o.Items {
			c := it.Customizations
			err := writeRow(f, ItemsSheet, itemRow, []interface{}{
				o.BillNumber,
				it.Name,
				it.Quantity,
				it.Price.Decimal().InexactFloat64(),
				c.SpiceLevel,
				strings.Join(c.Addons, ", "),
				c.SpecialInstructions,
			})
			if err != nil {
				return err
			}
			itemRow++
		}
	}

	if err := f.SetColWidth(OrdersSheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(ItemsSheet, "A", "B", 24); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

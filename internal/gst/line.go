package gst

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
)

var hundred = decimal.NewFromInt(100)

// LineAmounts holds the computed money fields for one document line.
// TaxAmount includes the cess portion; CessAmount reports it separately so
// the document accumulator can track cess as its own total.
type LineAmounts struct {
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	CessAmount     decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeLine computes discount, taxable base, tax and total for one line.
//
// Each step rounds independently to 2 decimals, starting with the raw base
// (quantity times unit price can carry sub-cent fractions). Downstream
// aggregation sums already-rounded per-line values, so document totals are
// sums of rounded numbers, not a rounded sum, and per-line taxable amounts
// always reconcile against the document taxable. Persisted data depends on
// that order.
func ComputeLine(quantity, unitPrice, discountPct, taxPct, cessPct decimal.Decimal) (LineAmounts, error) {
	if quantity.Sign() <= 0 {
		return LineAmounts{}, ErrInvalidQuantity
	}
	if unitPrice.Sign() < 0 {
		return LineAmounts{}, ErrInvalidUnitPrice
	}

	base := quantity.Mul(unitPrice).Round(2)
	discount := base.Mul(discountPct).Div(hundred).Round(2)
	afterDiscount := base.Sub(discount)

	cess := afterDiscount.Mul(cessPct).Div(hundred)
	tax := afterDiscount.Mul(taxPct).Div(hundred).Add(cess).Round(2)
	total := afterDiscount.Add(tax).Round(2)

	return LineAmounts{
		DiscountAmount: discount,
		TaxableAmount:  afterDiscount,
		TaxAmount:      tax,
		CessAmount:     cess.Round(2),
		TotalAmount:    total,
	}, nil
}

package gst

import "github.com/shopspring/decimal"

var twoHundred = decimal.NewFromInt(200)

// Breakdown accumulates the split tax components across the lines of one
// document. Intra-state tax splits into equal CGST and SGST halves;
// inter-state tax lands entirely on IGST. Exactly one side is ever non-zero
// for a given document.
type Breakdown struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Add accumulates the tax on taxable at ratePct. Zero rate or non-positive
// taxable leaves the breakdown untouched. Components stay unrounded while
// accumulating; callers round once via Rounded at aggregation exit.
func (b *Breakdown) Add(taxable, ratePct decimal.Decimal, interState bool) {
	if ratePct.Sign() <= 0 || taxable.Sign() <= 0 {
		return
	}

	if interState {
		b.IGST = b.IGST.Add(taxable.Mul(ratePct).Div(hundred))
		return
	}

	half := taxable.Mul(ratePct).Div(twoHundred)
	b.CGST = b.CGST.Add(half)
	b.SGST = b.SGST.Add(half)
}

// Rounded returns the breakdown with every component rounded to 2 decimals.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		CGST: b.CGST.Round(2),
		SGST: b.SGST.Round(2),
		IGST: b.IGST.Round(2),
	}
}

// Total returns the summed tax components.
func (b Breakdown) Total() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name         string
		qty          string
		unitPrice    string
		discountPct  string
		taxPct       string
		cessPct      string
		wantDiscount string
		wantTaxable  string
		wantTax      string
		wantTotal    string
	}{
		{
			name: "two units at 100 with 18 percent",
			qty:  "2", unitPrice: "100", discountPct: "0", taxPct: "18", cessPct: "0",
			wantDiscount: "0", wantTaxable: "200", wantTax: "36", wantTotal: "236",
		},
		{
			name: "ten percent discount then 12 percent tax",
			qty:  "1", unitPrice: "1000", discountPct: "10", taxPct: "12", cessPct: "0",
			wantDiscount: "100", wantTaxable: "900", wantTax: "108", wantTotal: "1008",
		},
		{
			name: "cess on top of tax",
			qty:  "1", unitPrice: "1000", discountPct: "0", taxPct: "28", cessPct: "12",
			wantDiscount: "0", wantTaxable: "1000", wantTax: "400", wantTotal: "1400",
		},
		{
			name: "zero rates",
			qty:  "3", unitPrice: "49.99", discountPct: "0", taxPct: "0", cessPct: "0",
			wantDiscount: "0", wantTaxable: "149.97", wantTax: "0", wantTotal: "149.97",
		},
		{
			name: "fractional quantity rounds each step",
			qty:  "1.5", unitPrice: "33.33", discountPct: "5", taxPct: "18", cessPct: "0",
			// base=round2(49.995)=50.00, discount=2.50, after=47.50,
			// tax=8.55, total=56.05
			wantDiscount: "2.50", wantTaxable: "47.50", wantTax: "8.55", wantTotal: "56.05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(d(tt.qty), d(tt.unitPrice), d(tt.discountPct), d(tt.taxPct), d(tt.cessPct))
			require.NoError(t, err)

			assert.True(t, d(tt.wantDiscount).Equal(got.DiscountAmount), "discount: got %s", got.DiscountAmount)
			assert.True(t, d(tt.wantTaxable).Equal(got.TaxableAmount), "taxable: got %s", got.TaxableAmount)
			assert.True(t, d(tt.wantTax).Equal(got.TaxAmount), "tax: got %s", got.TaxAmount)
			assert.True(t, d(tt.wantTotal).Equal(got.TotalAmount), "total: got %s", got.TotalAmount)
		})
	}
}

func TestComputeLine_Validation(t *testing.T) {
	_, err := ComputeLine(d("0"), d("100"), d("0"), d("18"), d("0"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ComputeLine(d("-1"), d("100"), d("0"), d("18"), d("0"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ComputeLine(d("1"), d("-0.01"), d("0"), d("18"), d("0"))
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestComputeLine_ZeroRateKeepsTotalAtTaxable(t *testing.T) {
	// Reverse-charge documents feed a zero rate; the total must collapse to
	// the discounted base regardless of what the catalog says.
	got, err := ComputeLine(d("4"), d("250"), d("10"), d("0"), d("0"))
	require.NoError(t, err)

	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.TotalAmount.Equal(got.TaxableAmount))
}

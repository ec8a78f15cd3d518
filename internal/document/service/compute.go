package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/ledgerline/internal/catalog/domain"
	"github.com/smallbiznis/ledgerline/internal/document/domain"
	"github.com/smallbiznis/ledgerline/internal/gst"
	"gorm.io/gorm"
)

// docInput is the calculation-relevant slice of a create/update request.
type docInput struct {
	Lines           []domain.LineInput
	ReverseCharge   bool
	TaxInvoice      bool
	DiscountAllPct  *decimal.Decimal
	ShippingAmount  decimal.Decimal
	ShippingTaxRate decimal.Decimal
}

func fromCreate(req domain.CreateRequest) docInput {
	return docInput{
		Lines:           req.Lines,
		ReverseCharge:   req.ReverseCharge,
		TaxInvoice:      req.TaxInvoice,
		DiscountAllPct:  req.DiscountAllPct,
		ShippingAmount:  req.ShippingAmount,
		ShippingTaxRate: req.ShippingTaxRate,
	}
}

func fromUpdate(req domain.UpdateRequest) docInput {
	return docInput{
		Lines:           req.Lines,
		ReverseCharge:   req.ReverseCharge,
		TaxInvoice:      req.TaxInvoice,
		DiscountAllPct:  req.DiscountAllPct,
		ShippingAmount:  req.ShippingAmount,
		ShippingTaxRate: req.ShippingTaxRate,
	}
}

// totals holds the reconciled document-level amounts, all rounded to 2
// decimals.
type totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	Taxable       decimal.Decimal
	Tax           gst.Breakdown
	Cess          decimal.Decimal
	GrandTotal    decimal.Decimal
}

// aggregate resolves catalog items and folds every line plus shipping into
// document totals. Any failure aborts the whole aggregation; partial totals
// are never returned.
func (s *Service) aggregate(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, pol domain.Policy, interState bool, in docInput) (totals, []domain.LineItem, error) {
	if len(in.Lines) == 0 {
		return totals{}, nil, domain.NewValidationError("line items are required")
	}

	itemMap, err := s.resolveItems(ctx, tx, orgID, in.Lines)
	if err != nil {
		return totals{}, nil, err
	}

	reverse := in.ReverseCharge && pol.AllowReverseCharge
	taxed := pol.AlwaysTaxed || in.TaxInvoice

	var (
		subtotal decimal.Decimal
		discount decimal.Decimal
		cess     decimal.Decimal
		tax      gst.Breakdown
		rows     = make([]domain.LineItem, 0, len(in.Lines))
	)

	for i, line := range in.Lines {
		item := itemMap[line.ItemID]

		discountPct := decimal.Zero
		if line.DiscountPct != nil {
			discountPct = *line.DiscountPct
		}
		if pol.AllowUniformDiscount && in.DiscountAllPct != nil {
			discountPct = *in.DiscountAllPct
		}

		taxRate := item.TaxRate
		if line.TaxRateOverride != nil {
			taxRate = *line.TaxRateOverride
		}
		cessRate := decimal.Zero
		if pol.CessEnabled {
			cessRate = item.CessRate
		}
		if reverse || !taxed {
			taxRate = decimal.Zero
			cessRate = decimal.Zero
		}

		amounts, err := gst.ComputeLine(line.Quantity, line.UnitPrice, discountPct, taxRate, cessRate)
		if err != nil {
			return totals{}, nil, domain.NewValidationError(fmt.Sprintf("line %d: %v", i+1, err))
		}

		tax.Add(amounts.TaxableAmount, taxRate, interState)
		cess = cess.Add(amounts.CessAmount)
		// Rounded line base = taxable + discount; summing these keeps the
		// document subtotal and taxable reconciled with the stored lines.
		subtotal = subtotal.Add(amounts.TaxableAmount.Add(amounts.DiscountAmount))
		discount = discount.Add(amounts.DiscountAmount)

		rows = append(rows, domain.LineItem{
			OrgID:         orgID,
			ItemID:        item.ID,
			Name:          item.Name,
			Unit:          item.Unit,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountPct:   discountPct,
			TaxRate:       taxRate,
			CessRate:      cessRate,
			TaxableAmount: amounts.TaxableAmount,
			TaxAmount:     amounts.TaxAmount,
			TotalAmount:   amounts.TotalAmount,
			IsActive:      true,
		})
	}

	if in.ShippingAmount.Sign() > 0 && in.ShippingTaxRate.Sign() > 0 && taxed && !reverse {
		tax.Add(in.ShippingAmount, in.ShippingTaxRate, interState)
	}

	// subtotal, discount and cess are sums of already-rounded line values,
	// so the document taxable is exactly the sum of the stored line taxables.
	rounded := tax.Rounded()
	taxable := subtotal.Sub(discount)
	grand := taxable.
		Add(rounded.CGST).Add(rounded.SGST).Add(rounded.IGST).
		Add(cess).
		Add(in.ShippingAmount).
		Round(2)

	return totals{
		Subtotal:      subtotal,
		TotalDiscount: discount,
		Taxable:       taxable,
		Tax:           rounded,
		Cess:          cess,
		GrandTotal:    grand,
	}, rows, nil
}

// resolveItems batch-loads the referenced catalog items, org-scoped. Missing
// or inactive items abort the aggregation; a resolved-count mismatch means
// the catalog returned duplicates and is treated as a consistency fault.
func (s *Service) resolveItems(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, lines []domain.LineInput) (map[snowflake.ID]catalogdomain.Item, error) {
	seen := make(map[snowflake.ID]struct{}, len(lines))
	ids := make([]snowflake.ID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}

	items, err := s.catalog.FindActiveByIDs(ctx, tx, orgID, ids)
	if err != nil {
		return nil, err
	}

	itemMap := make(map[snowflake.ID]catalogdomain.Item, len(items))
	for _, item := range items {
		itemMap[item.ID] = item
	}

	for _, id := range ids {
		if _, ok := itemMap[id]; !ok {
			return nil, domain.NewNotFoundError(fmt.Sprintf("catalog item %s", id))
		}
	}
	if len(items) != len(itemMap) {
		return nil, domain.NewConsistencyError(
			fmt.Sprintf("resolved %d catalog rows for %d distinct items", len(items), len(itemMap)))
	}

	return itemMap, nil
}

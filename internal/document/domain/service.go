package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Service is the document lifecycle contract consumed by the per-type
// transport handlers (outside this module). The org id travels in ctx.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Document, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Document, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Get(ctx context.Context, id snowflake.ID) (*Document, error)
}

// LineInput is one submitted line item. Ephemeral; it exists only for the
// duration of one calculation call.
type LineInput struct {
	ItemID          snowflake.ID     `json:"item_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPct     *decimal.Decimal `json:"discount_pct,omitempty"`
	TaxRateOverride *decimal.Decimal `json:"tax_rate,omitempty"`
}

// CreateRequest creates a document of the given type.
type CreateRequest struct {
	Type Type `json:"type"`

	VendorID *snowflake.ID `json:"vendor_id,omitempty"`
	ClientID *snowflake.ID `json:"client_id,omitempty"`

	ReferenceNo  string    `json:"reference_no"`
	DocumentDate time.Time `json:"document_date"`

	PlaceOfSupply     string `json:"place_of_supply"`
	PlaceOfSupplyCode string `json:"place_of_supply_code,omitempty"`

	ReverseCharge bool `json:"reverse_charge"`
	TaxInvoice    bool `json:"tax_invoice"`

	DiscountAllPct *decimal.Decimal `json:"discount_all_pct,omitempty"`

	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
	ShippingTaxRate decimal.Decimal `json:"shipping_tax_rate"`

	Metadata map[string]any `json:"metadata,omitempty"`

	Lines []LineInput `json:"lines"`
}

// UpdateRequest replaces a document's line set and recomputes every total
// from scratch. This is replace, not patch: the previous computed lines are
// discarded wholesale. The document type is immutable.
type UpdateRequest struct {
	VendorID *snowflake.ID `json:"vendor_id,omitempty"`
	ClientID *snowflake.ID `json:"client_id,omitempty"`

	ReferenceNo  string    `json:"reference_no"`
	DocumentDate time.Time `json:"document_date"`

	PlaceOfSupply     string `json:"place_of_supply"`
	PlaceOfSupplyCode string `json:"place_of_supply_code,omitempty"`

	ReverseCharge bool `json:"reverse_charge"`
	TaxInvoice    bool `json:"tax_invoice"`

	DiscountAllPct *decimal.Decimal `json:"discount_all_pct,omitempty"`

	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
	ShippingTaxRate decimal.Decimal `json:"shipping_tax_rate"`

	Metadata map[string]any `json:"metadata,omitempty"`

	Lines []LineInput `json:"lines"`
}

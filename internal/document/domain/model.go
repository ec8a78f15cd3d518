// Package domain contains persistence models and contracts for financial
// documents (expenses, debit notes, purchase orders, invoices).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Type identifies the document kind. All four share one engine; behavior
// differences live in the Policy table.
type Type string

const (
	TypeExpense       Type = "expense"
	TypeDebitNote     Type = "debit_note"
	TypePurchaseOrder Type = "purchase_order"
	TypeInvoice       Type = "invoice"
)

// Status represents document lifecycle states. There is no transition out of
// deleted; restoration is an external concern.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Document is the persisted financial document with fully reconciled totals.
// Exactly one of VendorID/ClientID is set. Totals invariant:
//
//	GrandTotal = Subtotal − TotalDiscount + CGST + SGST + IGST + Cess + ShippingAmount
//
// with shipping tax already folded into the jurisdiction-appropriate
// components.
type Document struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`
	Type  Type         `gorm:"type:text;not null;index"`

	VendorID *snowflake.ID `gorm:"column:vendor_id;index"`
	ClientID *snowflake.ID `gorm:"column:client_id;index"`

	ReferenceNo  string    `gorm:"column:reference_no;type:text"`
	DocumentDate time.Time `gorm:"column:document_date;not null"`

	PlaceOfSupply     string `gorm:"column:place_of_supply;type:text"`
	PlaceOfSupplyCode string `gorm:"column:place_of_supply_code;type:text"`

	ReverseCharge bool `gorm:"column:reverse_charge;not null;default:false"`
	TaxInvoice    bool `gorm:"column:tax_invoice;not null;default:true"`

	DiscountAllPct *decimal.Decimal `gorm:"column:discount_all_pct;type:decimal(6,2)"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	TotalDiscount decimal.Decimal `gorm:"column:total_discount;type:decimal(20,2);not null;default:0"`
	TaxableAmount decimal.Decimal `gorm:"column:taxable_amount;type:decimal(20,2);not null;default:0"`
	CGST          decimal.Decimal `gorm:"column:cgst;type:decimal(20,2);not null;default:0"`
	SGST          decimal.Decimal `gorm:"column:sgst;type:decimal(20,2);not null;default:0"`
	IGST          decimal.Decimal `gorm:"column:igst;type:decimal(20,2);not null;default:0"`
	Cess          decimal.Decimal `gorm:"column:cess;type:decimal(20,2);not null;default:0"`

	ShippingAmount  decimal.Decimal `gorm:"column:shipping_amount;type:decimal(20,2);not null;default:0"`
	ShippingTaxRate decimal.Decimal `gorm:"column:shipping_tax_rate;type:decimal(6,2);not null;default:0"`

	GrandTotal decimal.Decimal `gorm:"column:grand_total;type:decimal(20,2);not null;default:0"`

	Status    Status `gorm:"type:text;not null;default:'active'"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true"`
	IsDeleted bool   `gorm:"column:is_deleted;not null;default:false"`

	Version int64 `gorm:"not null;default:1"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`

	LineItems []LineItem `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// LineItem is a computed child row of a Document. Name/unit/rates are a
// snapshot of the catalog item at computation time and stay frozen even if
// the catalog changes. Rows are never mutated in place; an update replaces
// the whole set.
type LineItem struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	OrgID      snowflake.ID `gorm:"column:org_id;not null;index"`
	DocumentID snowflake.ID `gorm:"column:document_id;not null;index"`
	ItemID     snowflake.ID `gorm:"column:item_id;not null;index"`

	Name string `gorm:"type:text;not null"`
	Unit string `gorm:"type:text"`

	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(20,2);not null"`
	DiscountPct decimal.Decimal `gorm:"column:discount_pct;type:decimal(6,2);not null;default:0"`
	TaxRate     decimal.Decimal `gorm:"column:tax_rate;type:decimal(6,2);not null;default:0"`
	CessRate    decimal.Decimal `gorm:"column:cess_rate;type:decimal(6,2);not null;default:0"`

	TaxableAmount decimal.Decimal `gorm:"column:taxable_amount;type:decimal(20,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount;type:decimal(20,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(20,2);not null"`

	IsActive  bool `gorm:"column:is_active;not null;default:true"`
	IsDeleted bool `gorm:"column:is_deleted;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "document_line_items" }

package domain

// Policy carries the per-document-type variation points. One generic engine
// parameterized by this table replaces the four per-type implementations the
// original system grew.
type Policy struct {
	// AllowReverseCharge lets the document's reverse-charge flag suppress
	// tax on every line.
	AllowReverseCharge bool
	// AllowUniformDiscount lets a document-level discount percentage
	// override each line's own discount.
	AllowUniformDiscount bool
	// CessEnabled applies the catalog item's cess rate on top of tax.
	CessEnabled bool
	// AlwaysTaxed ignores the document's tax-invoice toggle; tax is always
	// computed (debit notes are always taxed).
	AlwaysTaxed bool
}

var policies = map[Type]Policy{
	TypeExpense: {
		AllowReverseCharge: true,
		AlwaysTaxed:        true,
	},
	TypeDebitNote: {
		AllowReverseCharge: true,
		CessEnabled:        true,
		AlwaysTaxed:        true,
	},
	TypePurchaseOrder: {
		AllowReverseCharge:   true,
		AllowUniformDiscount: true,
		CessEnabled:          true,
		AlwaysTaxed:          true,
	},
	TypeInvoice: {
		AllowReverseCharge:   true,
		AllowUniformDiscount: true,
		CessEnabled:          true,
	},
}

// PolicyFor returns the policy for a document type.
func PolicyFor(t Type) (Policy, bool) {
	pol, ok := policies[t]
	return pol, ok
}

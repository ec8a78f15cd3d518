package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/ledgerline/internal/catalog/domain"
	counterpartydomain "github.com/smallbiznis/ledgerline/internal/counterparty/domain"
	"github.com/smallbiznis/ledgerline/internal/document/domain"
	"github.com/smallbiznis/ledgerline/internal/orgcontext"
	orgdomain "github.com/smallbiznis/ledgerline/internal/organization/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc      *Service
	db       *gorm.DB
	node     *snowflake.Node
	ctx      context.Context
	orgID    snowflake.ID
	vendorID snowflake.ID
	clientID snowflake.ID
	itemID   snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	svc, db, node := newTestService(t)
	orgID := node.Generate()

	require.NoError(t, db.Create(&orgdomain.Organization{
		ID:        orgID,
		Name:      "Acme Traders",
		GSTIN:     "29AAACA1234A1Z5",
		HomeState: "Karnataka",
		StateCode: "ka",
	}).Error)

	vendor := counterpartydomain.Vendor{ID: node.Generate(), OrgID: orgID, Name: "Supplies Co", IsActive: true}
	require.NoError(t, db.Create(&vendor).Error)
	client := counterpartydomain.Client{ID: node.Generate(), OrgID: orgID, Name: "Retail LLP", IsActive: true}
	require.NoError(t, db.Create(&client).Error)

	itemID := seedItem(t, db, node, orgID, "Widget", "18", "0")

	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		ctx:      orgcontext.WithOrgID(context.Background(), int64(orgID)),
		orgID:    orgID,
		vendorID: vendor.ID,
		clientID: client.ID,
		itemID:   itemID,
	}
}

func (f *fixture) createRequest(docType domain.Type) domain.CreateRequest {
	return domain.CreateRequest{
		Type:              docType,
		ClientID:          &f.clientID,
		ReferenceNo:       "INV-001",
		DocumentDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PlaceOfSupply:     "Karnataka",
		PlaceOfSupplyCode: "ka",
		TaxInvoice:        true,
		Lines: []domain.LineInput{
			{ItemID: f.itemID, Quantity: d("2"), UnitPrice: d("100")},
		},
	}
}

func TestCreateClientDocumentWritesLedger(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx, f.createRequest(domain.TypeInvoice))
	require.NoError(t, err)

	assert.Equal(t, int64(1), doc.Version)
	assert.Equal(t, domain.StatusActive, doc.Status)
	assert.True(t, doc.GrandTotal.Equal(d("236")), "grand %s", doc.GrandTotal)
	assert.True(t, doc.CGST.Equal(d("18")))
	assert.True(t, doc.SGST.Equal(d("18")))
	require.Len(t, doc.LineItems, 1)

	var lineCount int64
	require.NoError(t, f.db.Model(&domain.LineItem{}).
		Where("document_id = ?", doc.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)

	entry, err := f.svc.ledger.FindByReference(f.ctx, f.db, f.orgID, string(domain.TypeInvoice), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, f.clientID, entry.ClientID)
	assert.True(t, entry.Amount.Equal(doc.GrandTotal))
	assert.Equal(t, "INV-001", entry.ReferenceNo)
}

func TestCreateVendorDocumentSkipsLedger(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(domain.TypeExpense)
	req.ClientID = nil
	req.VendorID = &f.vendorID

	doc, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	entry, err := f.svc.ledger.FindByReference(f.ctx, f.db, f.orgID, string(domain.TypeExpense), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCreateInterStateSplitsToIGST(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(domain.TypeInvoice)
	req.PlaceOfSupply = "Maharashtra"
	req.PlaceOfSupplyCode = "mh"

	doc, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	assert.True(t, doc.IGST.Equal(d("36")), "igst %s", doc.IGST)
	assert.True(t, doc.CGST.IsZero())
	assert.True(t, doc.SGST.IsZero())
}

func TestCreateFreeTextFallback(t *testing.T) {
	f := newFixture(t)

	// No code on either side of the comparison; the free-text matcher
	// decides.
	require.NoError(t, f.db.Model(&orgdomain.Organization{}).
		Where("id = ?", f.orgID).
		Update("state_code", "").Error)

	req := f.createRequest(domain.TypeInvoice)
	req.PlaceOfSupplyCode = ""
	req.PlaceOfSupply = "Bengaluru, Karnataka"

	doc, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	assert.True(t, doc.CGST.Equal(d("18")))
	assert.True(t, doc.SGST.Equal(d("18")))
	assert.True(t, doc.IGST.IsZero())
}

func TestCreateCounterpartyValidation(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(domain.TypeInvoice)
	req.ClientID = nil
	_, err := f.svc.Create(f.ctx, req)
	assert.True(t, domain.IsValidation(err), "got %v", err)

	req = f.createRequest(domain.TypeInvoice)
	req.VendorID = &f.vendorID
	_, err = f.svc.Create(f.ctx, req)
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestCreateUnknownCounterparty(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(domain.TypeInvoice)
	missing := f.node.Generate()
	req.ClientID = &missing
	_, err := f.svc.Create(f.ctx, req)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestCreateUnknownType(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(domain.Type("credit_note"))
	_, err := f.svc.Create(f.ctx, req)
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestCreateRequiresOrgContext(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.createRequest(domain.TypeInvoice))
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestUpdateReplacesLinesAndRefreshesLedger(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(domain.TypeInvoice)
	req.Lines = append(req.Lines, domain.LineInput{
		ItemID: f.itemID, Quantity: d("1"), UnitPrice: d("50"),
	})
	doc, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	require.Len(t, doc.LineItems, 2)

	updated, err := f.svc.Update(f.ctx, doc.ID, domain.UpdateRequest{
		ClientID:          &f.clientID,
		ReferenceNo:       "INV-001-R1",
		DocumentDate:      req.DocumentDate,
		PlaceOfSupply:     "Karnataka",
		PlaceOfSupplyCode: "ka",
		TaxInvoice:        true,
		Lines: []domain.LineInput{
			{ItemID: f.itemID, Quantity: d("1"), UnitPrice: d("100")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.Version)
	assert.True(t, updated.GrandTotal.Equal(d("118")), "grand %s", updated.GrandTotal)

	// The previous computed rows are gone, not soft-deleted.
	var lineCount int64
	require.NoError(t, f.db.Model(&domain.LineItem{}).
		Where("document_id = ?", doc.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)

	entry, err := f.svc.ledger.FindByReference(f.ctx, f.db, f.orgID, string(domain.TypeInvoice), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.Amount.Equal(d("118")), "ledger amount %s", entry.Amount)
	assert.Equal(t, "INV-001-R1", entry.ReferenceNo)
}

func TestUpdateToVendorRemovesLedger(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx, f.createRequest(domain.TypeInvoice))
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, doc.ID, domain.UpdateRequest{
		VendorID:          &f.vendorID,
		ReferenceNo:       "INV-001",
		DocumentDate:      doc.DocumentDate,
		PlaceOfSupply:     "Karnataka",
		PlaceOfSupplyCode: "ka",
		TaxInvoice:        true,
		Lines: []domain.LineInput{
			{ItemID: f.itemID, Quantity: d("1"), UnitPrice: d("100")},
		},
	})
	require.NoError(t, err)

	entry, err := f.svc.ledger.FindByReference(f.ctx, f.db, f.orgID, string(domain.TypeInvoice), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestUpdateMissingDocument(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(f.ctx, f.node.Generate(), domain.UpdateRequest{
		ClientID: &f.clientID,
		Lines: []domain.LineInput{
			{ItemID: f.itemID, Quantity: d("1"), UnitPrice: d("100")},
		},
	})
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestDeleteRemovesLedgerAndSoftDeletes(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx, f.createRequest(domain.TypeInvoice))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, doc.ID))

	var stored domain.Document
	require.NoError(t, f.db.Where("id = ?", doc.ID).First(&stored).Error)
	assert.Equal(t, domain.StatusDeleted, stored.Status)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, int64(2), stored.Version)

	var activeLines int64
	require.NoError(t, f.db.Model(&domain.LineItem{}).
		Where("document_id = ? AND is_deleted = ?", doc.ID, false).
		Count(&activeLines).Error)
	assert.Zero(t, activeLines)

	entry, err := f.svc.ledger.FindByReference(f.ctx, f.db, f.orgID, string(domain.TypeInvoice), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = f.svc.Get(f.ctx, doc.ID)
	assert.True(t, domain.IsNotFound(err), "got %v", err)

	// Repeat delete is a not-found, not a no-op.
	err = f.svc.Delete(f.ctx, doc.ID)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestGetPreloadsLineItems(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx, f.createRequest(domain.TypeInvoice))
	require.NoError(t, err)

	got, err := f.svc.Get(f.ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "Widget", got.LineItems[0].Name)
	assert.True(t, got.GrandTotal.Equal(doc.GrandTotal))
}

func TestAggregateReproducesPersistedTotals(t *testing.T) {
	f := newFixture(t)

	fiveOff := d("5")
	req := f.createRequest(domain.TypeInvoice)
	req.ShippingAmount = d("50")
	req.ShippingTaxRate = d("18")
	req.Lines = []domain.LineInput{
		{ItemID: f.itemID, Quantity: d("2"), UnitPrice: d("100")},
		{ItemID: f.itemID, Quantity: d("1.5"), UnitPrice: d("33.33"), DiscountPct: &fiveOff},
	}
	doc, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	stored, err := f.svc.Get(f.ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.LineItems, 2)

	// Replaying the persisted lines through the aggregator must reproduce
	// every persisted total exactly.
	replay := docInput{
		ReverseCharge:   stored.ReverseCharge,
		TaxInvoice:      stored.TaxInvoice,
		DiscountAllPct:  stored.DiscountAllPct,
		ShippingAmount:  stored.ShippingAmount,
		ShippingTaxRate: stored.ShippingTaxRate,
	}
	for _, line := range stored.LineItems {
		discountPct := line.DiscountPct
		taxRate := line.TaxRate
		replay.Lines = append(replay.Lines, domain.LineInput{
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPct:     &discountPct,
			TaxRateOverride: &taxRate,
		})
	}

	pol, _ := domain.PolicyFor(stored.Type)
	tot, _, err := f.svc.aggregate(f.ctx, f.db, f.orgID, pol, false, replay)
	require.NoError(t, err)

	assert.True(t, tot.Subtotal.Equal(stored.Subtotal), "subtotal %s vs %s", tot.Subtotal, stored.Subtotal)
	assert.True(t, tot.TotalDiscount.Equal(stored.TotalDiscount), "discount %s vs %s", tot.TotalDiscount, stored.TotalDiscount)
	assert.True(t, tot.Taxable.Equal(stored.TaxableAmount), "taxable %s vs %s", tot.Taxable, stored.TaxableAmount)
	assert.True(t, tot.Tax.CGST.Equal(stored.CGST), "cgst %s vs %s", tot.Tax.CGST, stored.CGST)
	assert.True(t, tot.Tax.SGST.Equal(stored.SGST), "sgst %s vs %s", tot.Tax.SGST, stored.SGST)
	assert.True(t, tot.Tax.IGST.Equal(stored.IGST), "igst %s vs %s", tot.Tax.IGST, stored.IGST)
	assert.True(t, tot.Cess.Equal(stored.Cess), "cess %s vs %s", tot.Cess, stored.Cess)
	assert.True(t, tot.GrandTotal.Equal(stored.GrandTotal), "grand %s vs %s", tot.GrandTotal, stored.GrandTotal)
}

func TestGetScopedToOrg(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx, f.createRequest(domain.TypeInvoice))
	require.NoError(t, err)

	otherOrg := orgcontext.WithOrgID(context.Background(), int64(f.node.Generate()))
	_, err = f.svc.Get(otherOrg, doc.ID)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestUpdateVersionConflict(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(f.ctx, f.createRequest(domain.TypeInvoice))
	require.NoError(t, err)

	// Simulate a concurrent writer bumping the version between this
	// updater's read and its guarded write.
	f.svc.catalog = &conflictingCatalog{
		Repository: f.svc.catalog,
		docID:      doc.ID,
	}

	_, err = f.svc.Update(f.ctx, doc.ID, domain.UpdateRequest{
		ClientID:          &f.clientID,
		ReferenceNo:       "INV-001",
		DocumentDate:      doc.DocumentDate,
		PlaceOfSupply:     "Karnataka",
		PlaceOfSupplyCode: "ka",
		TaxInvoice:        true,
		Lines: []domain.LineInput{
			{ItemID: f.itemID, Quantity: d("1"), UnitPrice: d("100")},
		},
	})
	assert.True(t, domain.IsConsistency(err), "got %v", err)
}

// conflictingCatalog bumps the document version out from under the update
// during item resolution, after the updater's read but before its guarded
// write.
type conflictingCatalog struct {
	catalogdomain.Repository
	docID  snowflake.ID
	bumped bool
}

func (c *conflictingCatalog) FindActiveByIDs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]catalogdomain.Item, error) {
	if !c.bumped {
		c.bumped = true
		if err := db.Model(&domain.Document{}).
			Where("id = ?", c.docID).
			Update("version", gorm.Expr("version + 10")).Error; err != nil {
			return nil, err
		}
	}
	return c.Repository.FindActiveByIDs(ctx, db, orgID, ids)
}

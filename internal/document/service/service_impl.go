package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/ledgerline/internal/catalog/domain"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/config"
	counterpartydomain "github.com/smallbiznis/ledgerline/internal/counterparty/domain"
	"github.com/smallbiznis/ledgerline/internal/document/domain"
	"github.com/smallbiznis/ledgerline/internal/gst"
	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	"github.com/smallbiznis/ledgerline/internal/observability/metrics"
	"github.com/smallbiznis/ledgerline/internal/orgcontext"
	orgdomain "github.com/smallbiznis/ledgerline/internal/organization/domain"
	"github.com/smallbiznis/ledgerline/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceParam collects the lifecycle manager dependencies.
type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Catalog      catalogdomain.Repository
	Parties      counterpartydomain.Repository
	Orgs         orgdomain.Repository
	Ledger       ledgerdomain.Repository
	Jurisdiction *config.JurisdictionConfigHolder
	Metrics      *metrics.Metrics
}

// Service drives the atomic create/replace/soft-delete of a document, its
// line items, and the associated receivables ledger entry.
type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	catalog      catalogdomain.Repository
	parties      counterpartydomain.Repository
	orgs         orgdomain.Repository
	ledger       ledgerdomain.Repository
	jurisdiction *config.JurisdictionConfigHolder
	metrics      *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("document.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		catalog:      p.Catalog,
		parties:      p.Parties,
		orgs:         p.Orgs,
		ledger:       p.Ledger,
		jurisdiction: p.Jurisdiction,
		metrics:      p.Metrics,
	}
}

// Create computes totals for the submitted line set and persists the
// document, its line items and (for client counterparties) a ledger entry in
// one transaction.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Document, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.NewValidationError("organization context required")
	}

	pol, ok := domain.PolicyFor(req.Type)
	if !ok {
		return nil, domain.NewValidationError("unknown document type")
	}

	if err := validateCounterparty(req.VendorID, req.ClientID); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NewNotFoundError("organization")
	}

	if err := s.checkCounterparty(ctx, orgID, req.VendorID, req.ClientID); err != nil {
		return nil, err
	}

	interState := s.interState(org, req.PlaceOfSupplyCode, req.PlaceOfSupply)
	now := s.clock.Now()

	var doc *domain.Document
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tot, lines, err := s.aggregate(ctx, tx, orgID, pol, interState, fromCreate(req))
		if err != nil {
			return err
		}

		doc = &domain.Document{
			ID:                s.genID.Generate(),
			OrgID:             orgID,
			Type:              req.Type,
			VendorID:          req.VendorID,
			ClientID:          req.ClientID,
			ReferenceNo:       req.ReferenceNo,
			DocumentDate:      req.DocumentDate,
			PlaceOfSupply:     req.PlaceOfSupply,
			PlaceOfSupplyCode: req.PlaceOfSupplyCode,
			ReverseCharge:     req.ReverseCharge,
			TaxInvoice:        req.TaxInvoice,
			DiscountAllPct:    req.DiscountAllPct,
			Subtotal:          tot.Subtotal,
			TotalDiscount:     tot.TotalDiscount,
			TaxableAmount:     tot.Taxable,
			CGST:              tot.Tax.CGST,
			SGST:              tot.Tax.SGST,
			IGST:              tot.Tax.IGST,
			Cess:              tot.Cess,
			ShippingAmount:    req.ShippingAmount,
			ShippingTaxRate:   req.ShippingTaxRate,
			GrandTotal:        tot.GrandTotal,
			Status:            domain.StatusActive,
			IsActive:          true,
			Version:           1,
			Metadata:          datatypes.JSONMap(req.Metadata),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.WithContext(ctx).Create(doc).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].ID = s.genID.Generate()
			lines[i].DocumentID = doc.ID
			lines[i].CreatedAt = now
		}
		if err := tx.WithContext(ctx).CreateInBatches(&lines, 100).Error; err != nil {
			return err
		}
		doc.LineItems = lines

		if req.ClientID != nil {
			err := s.ledger.Create(ctx, tx, &ledgerdomain.Entry{
				ID:            s.genID.Generate(),
				OrgID:         orgID,
				ClientID:      *req.ClientID,
				ReferenceType: string(req.Type),
				ReferenceID:   doc.ID,
				ReferenceNo:   req.ReferenceNo,
				Amount:        tot.GrandTotal,
				EntryDate:     req.DocumentDate,
				CreatedAt:     now,
			})
			if db.IsDuplicateKeyErr(err) {
				return domain.NewConsistencyError("ledger entry already exists for document")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentCreated(ctx, string(req.Type))
	s.log.Info("document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("type", string(req.Type)),
		zap.String("grand_total", doc.GrandTotal.String()),
	)
	return doc, nil
}

// Update recomputes every total from the submitted line set and replaces the
// document's children wholesale. The previous computed lines are discarded,
// not merged. The ledger entry is refreshed so its amount tracks the new
// grand total.
func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Document, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.NewValidationError("organization context required")
	}

	existing, err := s.findActive(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}

	pol, ok := domain.PolicyFor(existing.Type)
	if !ok {
		return nil, domain.NewValidationError("unknown document type")
	}

	if err := validateCounterparty(req.VendorID, req.ClientID); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NewNotFoundError("organization")
	}

	if err := s.checkCounterparty(ctx, orgID, req.VendorID, req.ClientID); err != nil {
		return nil, err
	}

	interState := s.interState(org, req.PlaceOfSupplyCode, req.PlaceOfSupply)
	now := s.clock.Now()

	var updated *domain.Document
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tot, lines, err := s.aggregate(ctx, tx, orgID, pol, interState, fromUpdate(req))
		if err != nil {
			return err
		}

		// Children are replaced, never diffed.
		if err := tx.WithContext(ctx).
			Where("document_id = ?", id).
			Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].ID = s.genID.Generate()
			lines[i].DocumentID = id
			lines[i].CreatedAt = now
		}
		if err := tx.WithContext(ctx).CreateInBatches(&lines, 100).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"vendor_id":            req.VendorID,
			"client_id":            req.ClientID,
			"reference_no":         req.ReferenceNo,
			"document_date":        req.DocumentDate,
			"place_of_supply":      req.PlaceOfSupply,
			"place_of_supply_code": req.PlaceOfSupplyCode,
			"reverse_charge":       req.ReverseCharge,
			"tax_invoice":          req.TaxInvoice,
			"discount_all_pct":     req.DiscountAllPct,
			"subtotal":             tot.Subtotal,
			"total_discount":       tot.TotalDiscount,
			"taxable_amount":       tot.Taxable,
			"cgst":                 tot.Tax.CGST,
			"sgst":                 tot.Tax.SGST,
			"igst":                 tot.Tax.IGST,
			"cess":                 tot.Cess,
			"shipping_amount":      req.ShippingAmount,
			"shipping_tax_rate":    req.ShippingTaxRate,
			"grand_total":          tot.GrandTotal,
			"metadata":             datatypes.JSONMap(req.Metadata),
			"version":              existing.Version + 1,
			"updated_at":           now,
		}
		res := tx.WithContext(ctx).
			Model(&domain.Document{}).
			Where("id = ? AND org_id = ? AND version = ?", id, orgID, existing.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NewConsistencyError("document was modified concurrently")
		}

		if err := s.ledger.DeleteByReference(ctx, tx, orgID, string(existing.Type), id); err != nil {
			return err
		}
		if req.ClientID != nil {
			if err := s.ledger.Create(ctx, tx, &ledgerdomain.Entry{
				ID:            s.genID.Generate(),
				OrgID:         orgID,
				ClientID:      *req.ClientID,
				ReferenceType: string(existing.Type),
				ReferenceID:   id,
				ReferenceNo:   req.ReferenceNo,
				Amount:        tot.GrandTotal,
				EntryDate:     req.DocumentDate,
				CreatedAt:     now,
			}); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return domain.NewConsistencyError("ledger entry already exists for document")
				}
				return err
			}
		}

		updated = existing
		updated.VendorID = req.VendorID
		updated.ClientID = req.ClientID
		updated.ReferenceNo = req.ReferenceNo
		updated.DocumentDate = req.DocumentDate
		updated.PlaceOfSupply = req.PlaceOfSupply
		updated.PlaceOfSupplyCode = req.PlaceOfSupplyCode
		updated.ReverseCharge = req.ReverseCharge
		updated.TaxInvoice = req.TaxInvoice
		updated.DiscountAllPct = req.DiscountAllPct
		updated.Subtotal = tot.Subtotal
		updated.TotalDiscount = tot.TotalDiscount
		updated.TaxableAmount = tot.Taxable
		updated.CGST = tot.Tax.CGST
		updated.SGST = tot.Tax.SGST
		updated.IGST = tot.Tax.IGST
		updated.Cess = tot.Cess
		updated.ShippingAmount = req.ShippingAmount
		updated.ShippingTaxRate = req.ShippingTaxRate
		updated.GrandTotal = tot.GrandTotal
		updated.Metadata = datatypes.JSONMap(req.Metadata)
		updated.Version = existing.Version + 1
		updated.UpdatedAt = now
		updated.LineItems = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentUpdated(ctx, string(updated.Type))
	s.log.Info("document updated",
		zap.String("document_id", id.String()),
		zap.String("type", string(updated.Type)),
		zap.String("grand_total", updated.GrandTotal.String()),
	)
	return updated, nil
}

// Delete soft-deletes the document and its children and removes the ledger
// entry, atomically. Deleting an already-deleted document is a not-found,
// not a no-op.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.NewValidationError("organization context required")
	}

	existing, err := s.findActive(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Model(&domain.LineItem{}).
			Where("document_id = ?", id).
			Updates(map[string]any{"is_active": false, "is_deleted": true}).Error; err != nil {
			return err
		}

		if err := s.ledger.DeleteByReference(ctx, tx, orgID, string(existing.Type), id); err != nil {
			return err
		}

		res := tx.WithContext(ctx).
			Model(&domain.Document{}).
			Where("id = ? AND org_id = ? AND version = ?", id, orgID, existing.Version).
			Updates(map[string]any{
				"status":     domain.StatusDeleted,
				"is_active":  false,
				"is_deleted": true,
				"version":    existing.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NewConsistencyError("document was modified concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.RecordDocumentDeleted(ctx, string(existing.Type))
	s.log.Info("document deleted",
		zap.String("document_id", id.String()),
		zap.String("type", string(existing.Type)),
	)
	return nil
}

// Get returns an active document with its line items.
func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Document, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.NewValidationError("organization context required")
	}

	var doc domain.Document
	err := s.db.WithContext(ctx).
		Preload("LineItems", "is_deleted = ?", false).
		Where("id = ? AND org_id = ? AND is_deleted = ?", id, orgID, false).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("document")
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Service) findActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Document, error) {
	var doc domain.Document
	err := db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND is_deleted = ?", id, orgID, false).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("document")
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Service) checkCounterparty(ctx context.Context, orgID snowflake.ID, vendorID, clientID *snowflake.ID) error {
	if vendorID != nil {
		ok, err := s.parties.VendorExists(ctx, s.db, orgID, *vendorID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFoundError("vendor")
		}
		return nil
	}
	ok, err := s.parties.ClientExists(ctx, s.db, orgID, *clientID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("client")
	}
	return nil
}

// interState prefers validated state codes on both sides; the free-text
// matcher against the org's registered state is the legacy fallback.
func (s *Service) interState(org *orgdomain.Organization, posCode, placeOfSupply string) bool {
	if inter, ok := gst.IsInterStateByCode(posCode, org.StateCode); ok {
		return inter
	}
	aliases := map[string]string(nil)
	if s.jurisdiction != nil {
		aliases = s.jurisdiction.Get().Aliases
	}
	return gst.IsInterState(placeOfSupply, org.HomeState, aliases)
}

func validateCounterparty(vendorID, clientID *snowflake.ID) error {
	if vendorID == nil && clientID == nil {
		return domain.NewValidationError("a vendor or client reference is required")
	}
	if vendorID != nil && clientID != nil {
		return domain.NewValidationError("vendor and client references are mutually exclusive")
	}
	return nil
}

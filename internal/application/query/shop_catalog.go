package query

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/shop"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHOP QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ShopCatalogQuery lists the shop items of a class.
type ShopCatalogQuery struct {
	// ClassID identifies the class.
	ClassID string

	// EditableOnly drops system-managed entries, leaving only coupons the
	// teacher may add, edit or delete.
	EditableOnly bool
}

// Validate validates the query.
func (q ShopCatalogQuery) Validate() error {
	if q.ClassID == "" {
		return fmt.Errorf("shop_catalog: class_id is required")
	}
	return nil
}

// ShopCatalogResult contains the item list.
type ShopCatalogResult struct {
	Items []shop.Item
}

// ShopCatalogHandler handles the ShopCatalogQuery.
type ShopCatalogHandler struct {
	ledger shop.Ledger
}

// NewShopCatalogHandler creates a new ShopCatalogHandler.
func NewShopCatalogHandler(ledger shop.Ledger) *ShopCatalogHandler {
	return &ShopCatalogHandler{ledger: ledger}
}

// Handle executes the query. System-managed entries never reach a
// mutation form.
func (h *ShopCatalogHandler) Handle(ctx context.Context, q ShopCatalogQuery) (*ShopCatalogResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "ShopCatalog", shared.ErrValidation, err.Error(), err)
	}

	items, err := h.ledger.ListItems(ctx, q.ClassID)
	if err != nil {
		return nil, shared.WrapError("query", "ShopCatalog", shared.ErrStoreUnavailable, "failed to load items", err)
	}

	if !q.EditableOnly {
		return &ShopCatalogResult{Items: items}, nil
	}

	editable := make([]shop.Item, 0, len(items))
	for i := range items {
		if items[i].Type.IsAvatarManaged() {
			continue
		}
		editable = append(editable, items[i])
	}

	return &ShopCatalogResult{Items: editable}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PURCHASE HISTORY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// PurchaseHistoryQuery lists purchase records of a class, optionally
// scoped to one student.
type PurchaseHistoryQuery struct {
	ClassID   string
	StudentID string
	// UnusedOnly drops redeemed records.
	UnusedOnly bool
}

// Validate validates the query.
func (q PurchaseHistoryQuery) Validate() error {
	if q.ClassID == "" {
		return fmt.Errorf("purchase_history: class_id is required")
	}
	return nil
}

// PurchaseHistoryResult contains the matching records.
type PurchaseHistoryResult struct {
	Purchases []shop.Purchase
}

// PurchaseHistoryHandler handles the PurchaseHistoryQuery.
type PurchaseHistoryHandler struct {
	ledger shop.Ledger
}

// NewPurchaseHistoryHandler creates a new PurchaseHistoryHandler.
func NewPurchaseHistoryHandler(ledger shop.Ledger) *PurchaseHistoryHandler {
	return &PurchaseHistoryHandler{ledger: ledger}
}

// Handle executes the query.
func (h *PurchaseHistoryHandler) Handle(ctx context.Context, q PurchaseHistoryQuery) (*PurchaseHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "PurchaseHistory", shared.ErrValidation, err.Error(), err)
	}

	purchases, err := h.ledger.ListPurchases(ctx, q.ClassID)
	if err != nil {
		return nil, shared.WrapError("query", "PurchaseHistory", shared.ErrStoreUnavailable, "failed to load purchases", err)
	}

	out := make([]shop.Purchase, 0, len(purchases))
	for i := range purchases {
		if q.StudentID != "" && purchases[i].StudentID != q.StudentID {
			continue
		}
		if q.UnusedOnly && purchases[i].Used {
			continue
		}
		out = append(out, purchases[i])
	}

	return &PurchaseHistoryResult{Purchases: out}, nil
}

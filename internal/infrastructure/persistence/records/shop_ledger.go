package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ol2009/classquest-hub/internal/domain/shop"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
	"github.com/ol2009/classquest-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHOP LEDGER
// ══════════════════════════════════════════════════════════════════════════════

// ShopLedger implements shop.Ledger over the record store. It owns the
// per-class item catalog snapshot and the per-class purchase ledger snapshot.
type ShopLedger struct {
	store recordstore.Store
	log   *logger.Logger
}

// NewShopLedger creates a new ShopLedger.
func NewShopLedger(store recordstore.Store, log *logger.Logger) *ShopLedger {
	if log == nil {
		log = logger.Default()
	}
	return &ShopLedger{
		store: store,
		log:   log.With(logger.Component("shop_ledger")),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Items
// ─────────────────────────────────────────────────────────────────────────────

// ListItems returns all shop items of a class, empty when absent.
func (l *ShopLedger) ListItems(ctx context.Context, classID string) ([]shop.Item, error) {
	key := recordstore.ShopItemsKey(classID)

	var items []shop.Item
	err := l.store.Get(ctx, key, &items)
	switch {
	case err == nil:
		return items, nil
	case errors.Is(err, recordstore.ErrNotFound):
		return []shop.Item{}, nil
	case errors.Is(err, recordstore.ErrSerialization):
		l.log.Warn("malformed shop items snapshot, falling back to empty",
			logger.ClassID(classID), logger.Err(err))
		return []shop.Item{}, nil
	default:
		return nil, fmt.Errorf("list shop items: %w", err)
	}
}

// AddItem appends a teacher-authored item.
func (l *ShopLedger) AddItem(ctx context.Context, classID string, item shop.Item) error {
	if !item.Type.IsTeacherAuthored() {
		return shop.ErrSystemManagedItem
	}
	if err := item.Validate(); err != nil {
		return err
	}

	items, err := l.ListItems(ctx, classID)
	if err != nil {
		return err
	}

	items = append(items, item)
	return l.saveItems(ctx, classID, items)
}

// EditItem updates a teacher-authored item in place.
func (l *ShopLedger) EditItem(ctx context.Context, classID string, item shop.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	items, err := l.ListItems(ctx, classID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID != item.ID {
			continue
		}
		if !items[i].Type.IsTeacherAuthored() {
			return shop.ErrSystemManagedItem
		}
		item.Type = shop.ItemTypeClass
		items[i] = item
		return l.saveItems(ctx, classID, items)
	}

	return shop.ErrItemNotFound
}

// DeleteItem removes a teacher-authored item. A missing ID is a no-op;
// a system-managed target is rejected.
func (l *ShopLedger) DeleteItem(ctx context.Context, classID, itemID string) error {
	items, err := l.ListItems(ctx, classID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		if !items[i].Type.IsTeacherAuthored() {
			return shop.ErrSystemManagedItem
		}
		items = append(items[:i], items[i+1:]...)
		return l.saveItems(ctx, classID, items)
	}

	return nil
}

func (l *ShopLedger) saveItems(ctx context.Context, classID string, items []shop.Item) error {
	if err := l.store.Set(ctx, recordstore.ShopItemsKey(classID), items); err != nil {
		return fmt.Errorf("save shop items: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Purchases
// ─────────────────────────────────────────────────────────────────────────────

// ListPurchases returns all purchase records of a class, empty when absent.
func (l *ShopLedger) ListPurchases(ctx context.Context, classID string) ([]shop.Purchase, error) {
	key := recordstore.ShopPurchasesKey(classID)

	var purchases []shop.Purchase
	err := l.store.Get(ctx, key, &purchases)
	switch {
	case err == nil:
		return purchases, nil
	case errors.Is(err, recordstore.ErrNotFound):
		return []shop.Purchase{}, nil
	case errors.Is(err, recordstore.ErrSerialization):
		l.log.Warn("malformed purchase ledger snapshot, falling back to empty",
			logger.ClassID(classID), logger.Err(err))
		return []shop.Purchase{}, nil
	default:
		return nil, fmt.Errorf("list purchases: %w", err)
	}
}

// RecordPurchase appends a new unused purchase record.
func (l *ShopLedger) RecordPurchase(ctx context.Context, classID string, p shop.Purchase) error {
	purchases, err := l.ListPurchases(ctx, classID)
	if err != nil {
		return err
	}

	purchases = append(purchases, p)
	if err := l.store.Set(ctx, recordstore.ShopPurchasesKey(classID), purchases); err != nil {
		return fmt.Errorf("save purchases: %w", err)
	}
	return nil
}

// MarkUsed performs the one-way used transition on a purchase record.
// Marking an already-used record is a no-op; the stored snapshot is only
// rewritten when something actually changed.
func (l *ShopLedger) MarkUsed(ctx context.Context, classID, purchaseID string, at time.Time) (*shop.Purchase, error) {
	purchases, err := l.ListPurchases(ctx, classID)
	if err != nil {
		return nil, err
	}

	for i := range purchases {
		if purchases[i].ID != purchaseID {
			continue
		}

		if !purchases[i].MarkUsed(at) {
			record := purchases[i]
			return &record, nil
		}

		if err := l.store.Set(ctx, recordstore.ShopPurchasesKey(classID), purchases); err != nil {
			return nil, fmt.Errorf("save purchases: %w", err)
		}

		record := purchases[i]
		return &record, nil
	}

	return nil, shop.ErrPurchaseNotFound
}

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/shop"
)

// ══════════════════════════════════════════════════════════════════════════════
// PURCHASE COMMANDS
// The ledger records that a purchase happened; checking and debiting the
// student's point balance is the caller's responsibility.
// ══════════════════════════════════════════════════════════════════════════════

// RecordPurchaseCommand appends an unused purchase record.
type RecordPurchaseCommand struct {
	ClassID   string `validate:"required"`
	StudentID string `validate:"required"`
	ItemID    string `validate:"required"`
}

// Validate validates the command.
func (c RecordPurchaseCommand) Validate() error {
	return validate.Struct(c)
}

// RecordPurchaseResult contains the created record.
type RecordPurchaseResult struct {
	Purchase shop.Purchase
}

// MarkPurchaseUsedCommand redeems a purchase record.
type MarkPurchaseUsedCommand struct {
	ClassID    string `validate:"required"`
	PurchaseID string `validate:"required"`
}

// Validate validates the command.
func (c MarkPurchaseUsedCommand) Validate() error {
	return validate.Struct(c)
}

// MarkPurchaseUsedResult contains the record after the transition.
type MarkPurchaseUsedResult struct {
	Purchase shop.Purchase
}

// PurchasesHandler handles the purchase commands.
type PurchasesHandler struct {
	ledger    shop.Ledger
	publisher shared.EventPublisher
	now       func() time.Time
}

// NewPurchasesHandler creates a new PurchasesHandler.
func NewPurchasesHandler(ledger shop.Ledger, publisher shared.EventPublisher) *PurchasesHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &PurchasesHandler{ledger: ledger, publisher: publisher, now: time.Now}
}

// WithClock replaces the time source. Used in tests.
func (h *PurchasesHandler) WithClock(now func() time.Time) *PurchasesHandler {
	h.now = now
	return h
}

// HandleRecord executes the record purchase command. The item must exist
// in the class shop.
func (h *PurchasesHandler) HandleRecord(ctx context.Context, cmd RecordPurchaseCommand) (*RecordPurchaseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_purchase: %w", err)
	}

	items, err := h.ledger.ListItems(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("record_purchase: %w", err)
	}

	found := false
	for i := range items {
		if items[i].ID == cmd.ItemID {
			found = true
			break
		}
	}
	if !found {
		return nil, shop.ErrItemNotFound
	}

	p := shop.NewPurchase(uuid.NewString(), cmd.StudentID, cmd.ItemID, h.now())
	if err := h.ledger.RecordPurchase(ctx, cmd.ClassID, p); err != nil {
		return nil, fmt.Errorf("record_purchase: %w", err)
	}

	_ = h.publisher.Publish(shared.NewPurchaseRecordedEvent(cmd.ClassID, p.ID, cmd.StudentID, cmd.ItemID))

	return &RecordPurchaseResult{Purchase: p}, nil
}

// HandleMarkUsed executes the redeem command. Redeeming an already-used
// record is a no-op that returns the record unchanged.
func (h *PurchasesHandler) HandleMarkUsed(ctx context.Context, cmd MarkPurchaseUsedCommand) (*MarkPurchaseUsedResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("mark_used: %w", err)
	}

	p, err := h.ledger.MarkUsed(ctx, cmd.ClassID, cmd.PurchaseID, h.now())
	if err != nil {
		return nil, fmt.Errorf("mark_used: %w", err)
	}

	_ = h.publisher.Publish(shared.NewPurchaseUsedEvent(cmd.ClassID, p.ID))

	return &MarkPurchaseUsedResult{Purchase: *p}, nil
}

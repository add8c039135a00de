package command

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/shop"
)

// validate checks the flat form payloads of the shop commands.
var validate = validator.New()

// ══════════════════════════════════════════════════════════════════════════════
// SHOP ITEM COMMANDS
// Teacher-authored coupons only. System-managed (avatar) entries are
// rejected by the ledger before any mutation.
// ══════════════════════════════════════════════════════════════════════════════

// AddShopItemCommand creates a teacher-authored coupon.
type AddShopItemCommand struct {
	ClassID     string `validate:"required"`
	Name        string `validate:"required"`
	Description string
	Price       int `validate:"required,gt=0"`
}

// Validate validates the command.
func (c AddShopItemCommand) Validate() error {
	return validate.Struct(c)
}

// AddShopItemResult contains the created item.
type AddShopItemResult struct {
	Item shop.Item
}

// EditShopItemCommand updates a teacher-authored coupon in place.
type EditShopItemCommand struct {
	ClassID     string `validate:"required"`
	ItemID      string `validate:"required"`
	Name        string `validate:"required"`
	Description string
	Price       int `validate:"required,gt=0"`
}

// Validate validates the command.
func (c EditShopItemCommand) Validate() error {
	return validate.Struct(c)
}

// DeleteShopItemCommand removes a teacher-authored coupon.
// A missing ID is a no-op.
type DeleteShopItemCommand struct {
	ClassID string `validate:"required"`
	ItemID  string `validate:"required"`
}

// Validate validates the command.
func (c DeleteShopItemCommand) Validate() error {
	return validate.Struct(c)
}

// ShopItemsHandler handles the shop item commands.
type ShopItemsHandler struct {
	ledger    shop.Ledger
	publisher shared.EventPublisher
}

// NewShopItemsHandler creates a new ShopItemsHandler.
func NewShopItemsHandler(ledger shop.Ledger, publisher shared.EventPublisher) *ShopItemsHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &ShopItemsHandler{ledger: ledger, publisher: publisher}
}

// HandleAdd executes the add shop item command.
func (h *ShopItemsHandler) HandleAdd(ctx context.Context, cmd AddShopItemCommand) (*AddShopItemResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("add_shop_item: %w", err)
	}

	item := shop.Item{
		ID:          uuid.NewString(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Type:        shop.ItemTypeClass,
	}

	if err := h.ledger.AddItem(ctx, cmd.ClassID, item); err != nil {
		return nil, fmt.Errorf("add_shop_item: %w", err)
	}

	return &AddShopItemResult{Item: item}, nil
}

// HandleEdit executes the edit shop item command.
func (h *ShopItemsHandler) HandleEdit(ctx context.Context, cmd EditShopItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("edit_shop_item: %w", err)
	}

	item := shop.Item{
		ID:          cmd.ItemID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Type:        shop.ItemTypeClass,
	}

	if err := h.ledger.EditItem(ctx, cmd.ClassID, item); err != nil {
		return fmt.Errorf("edit_shop_item: %w", err)
	}
	return nil
}

// HandleDelete executes the delete shop item command.
func (h *ShopItemsHandler) HandleDelete(ctx context.Context, cmd DeleteShopItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_shop_item: %w", err)
	}

	if err := h.ledger.DeleteItem(ctx, cmd.ClassID, cmd.ItemID); err != nil {
		return fmt.Errorf("delete_shop_item: %w", err)
	}
	return nil
}

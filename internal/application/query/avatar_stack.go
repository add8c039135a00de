package query

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/application/command"
	"github.com/ol2009/classquest-hub/internal/domain/avatar"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVATAR QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// LayerView is one rendered layer of the avatar stack, with the label the
// user should see.
type LayerView struct {
	Type        avatar.LayerType
	ItemID      string
	ImagePath   string
	DisplayName string
	Rarity      avatar.Rarity
}

// AvatarStackQuery renders an equipped set into a draw-ordered layer stack.
type AvatarStackQuery struct {
	// Equipped maps each layer to the equipped catalog item ID.
	// Empty and absent entries mean nothing is equipped on that layer.
	Equipped map[avatar.LayerType]string
}

// AvatarStackResult contains the layers, bottom first.
type AvatarStackResult struct {
	Layers []LayerView
}

// AvatarStackHandler handles the AvatarStackQuery.
type AvatarStackHandler struct {
	catalog   avatar.Catalog
	overrides command.OverrideStore
}

// NewAvatarStackHandler creates a new AvatarStackHandler.
func NewAvatarStackHandler(catalog avatar.Catalog, overrides command.OverrideStore) *AvatarStackHandler {
	return &AvatarStackHandler{catalog: catalog, overrides: overrides}
}

// Handle executes the query. Unknown items and empty layers are skipped;
// the stack order depends only on the layer, not on equip order.
func (h *AvatarStackHandler) Handle(ctx context.Context, q AvatarStackQuery) (*AvatarStackResult, error) {
	overrides, err := h.overrides.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("avatar_stack: %w", err)
	}

	stack := avatar.Compose(q.Equipped, h.catalog)

	layers := make([]LayerView, 0, len(stack))
	for _, layer := range stack {
		item, _ := h.catalog.Item(layer.ItemID)
		layers = append(layers, LayerView{
			Type:        layer.Type,
			ItemID:      layer.ItemID,
			ImagePath:   layer.ImagePath,
			DisplayName: avatar.DisplayName(item, overrides),
			Rarity:      item.Rarity,
		})
	}

	return &AvatarStackResult{Layers: layers}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INVENTORY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// InventoryItemView is one catalog item prepared for inventory display.
type InventoryItemView struct {
	ItemID      string
	DisplayName string
	Layer       avatar.LayerType
	Rarity      avatar.Rarity
	ImagePath   string
}

// InventoryQuery lists catalog items, optionally filtered by minimum rarity.
type InventoryQuery struct {
	// MinRarity drops items below this rarity when set to a valid value.
	MinRarity avatar.Rarity
}

// InventoryResult contains the prepared items in catalog order.
type InventoryResult struct {
	Items []InventoryItemView
}

// InventoryHandler handles the InventoryQuery.
type InventoryHandler struct {
	catalog   avatar.Catalog
	overrides command.OverrideStore
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(catalog avatar.Catalog, overrides command.OverrideStore) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, overrides: overrides}
}

// Handle executes the inventory query. Filtering and sorting use catalog
// data; overrides only affect the label.
func (h *InventoryHandler) Handle(ctx context.Context, q InventoryQuery) (*InventoryResult, error) {
	overrides, err := h.overrides.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	items := h.catalog.Items()
	views := make([]InventoryItemView, 0, len(items))
	for _, item := range items {
		if q.MinRarity.IsValid() && !item.Rarity.AtLeast(q.MinRarity) {
			continue
		}
		views = append(views, InventoryItemView{
			ItemID:      item.ID,
			DisplayName: avatar.DisplayName(item, overrides),
			Layer:       item.Layer,
			Rarity:      item.Rarity,
			ImagePath:   item.InventoryImage(),
		})
	}

	return &InventoryResult{Items: views}, nil
}

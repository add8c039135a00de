package command

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/avatar"
	"github.com/ol2009/classquest-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RENAME ITEM COMMAND
// Attaches a display-name override to a catalog item. The catalog itself
// stays read-only; overrides only change the label shown to users.
// ══════════════════════════════════════════════════════════════════════════════

// OverrideStore persists the display-name override map.
type OverrideStore interface {
	Load(ctx context.Context) (avatar.Overrides, error)
	Save(ctx context.Context, overrides avatar.Overrides) error
}

// RenameItemCommand sets a display-name override for one catalog item.
type RenameItemCommand struct {
	// ItemID is the catalog ID of the item to rename.
	ItemID string

	// NewName is the desired label. Leading and trailing whitespace is
	// stripped before validation.
	NewName string
}

// Validate validates the command.
func (c RenameItemCommand) Validate() error {
	if c.ItemID == "" {
		return fmt.Errorf("rename_item: item_id is required")
	}
	return nil
}

// RenameItemResult contains the stored override.
type RenameItemResult struct {
	ItemID string
	Name   string
}

// RenameItemHandler handles the RenameItemCommand.
type RenameItemHandler struct {
	catalog   avatar.Catalog
	overrides OverrideStore
	publisher shared.EventPublisher
}

// NewRenameItemHandler creates a new RenameItemHandler.
func NewRenameItemHandler(
	catalog avatar.Catalog,
	overrides OverrideStore,
	publisher shared.EventPublisher,
) *RenameItemHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &RenameItemHandler{catalog: catalog, overrides: overrides, publisher: publisher}
}

// Handle executes the rename command. Empty names and names equal to the
// catalog name are declined before any mutation.
func (h *RenameItemHandler) Handle(ctx context.Context, cmd RenameItemCommand) (*RenameItemResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	item, ok := h.catalog.Item(cmd.ItemID)
	if !ok {
		return nil, avatar.ErrUnknownItem
	}

	name, err := avatar.ValidateOverride(item, cmd.NewName)
	if err != nil {
		return nil, err
	}

	overrides, err := h.overrides.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("rename_item: %w", err)
	}

	overrides[item.ID] = name
	if err := h.overrides.Save(ctx, overrides); err != nil {
		return nil, fmt.Errorf("rename_item: %w", err)
	}

	_ = h.publisher.Publish(shared.NewItemRenamedEvent(item.ID, name))

	return &RenameItemResult{ItemID: item.ID, Name: name}, nil
}

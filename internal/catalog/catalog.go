// Package catalog provides the built-in avatar item catalog and the seed
// shop items. The catalog is compiled in and read-only: item IDs and names
// come from the asset definitions and are never edited at runtime.
package catalog

import (
	"github.com/ol2009/classquest-hub/internal/domain/avatar"
	"github.com/ol2009/classquest-hub/internal/domain/shop"
)

// avatarItems is the full asset-defined item list, grouped by layer.
var avatarItems = []avatar.Item{
	// Heads
	{ID: "head-rookie", Name: "Rookie Face", Layer: avatar.LayerHead, Rarity: avatar.RarityCommon, ImagePath: "assets/avatar/head/rookie.png"},
	{ID: "head-scholar", Name: "Scholar Face", Layer: avatar.LayerHead, Rarity: avatar.RarityRare, ImagePath: "assets/avatar/head/scholar.png"},
	{ID: "head-dragon", Name: "Dragon Visage", Layer: avatar.LayerHead, Rarity: avatar.RarityLegendary, ImagePath: "assets/avatar/head/dragon.png", InventoryImagePath: "assets/avatar/head/dragon_inv.png"},

	// Bodies
	{ID: "body-uniform", Name: "School Uniform", Layer: avatar.LayerBody, Rarity: avatar.RarityCommon, ImagePath: "assets/avatar/body/uniform.png"},
	{ID: "body-knight", Name: "Knight Armor", Layer: avatar.LayerBody, Rarity: avatar.RarityEpic, ImagePath: "assets/avatar/body/knight.png"},
	{ID: "body-phoenix", Name: "Phoenix Robe", Layer: avatar.LayerBody, Rarity: avatar.RarityMythic, ImagePath: "assets/avatar/body/phoenix.png", InventoryImagePath: "assets/avatar/body/phoenix_inv.png"},

	// Hats
	{ID: "hat-cap", Name: "Baseball Cap", Layer: avatar.LayerHat, Rarity: avatar.RarityCommon, ImagePath: "assets/avatar/hat/cap.png"},
	{ID: "hat-wizard", Name: "Wizard Hat", Layer: avatar.LayerHat, Rarity: avatar.RarityRare, ImagePath: "assets/avatar/hat/wizard.png"},
	{ID: "hat-crown", Name: "Golden Crown", Layer: avatar.LayerHat, Rarity: avatar.RarityLegendary, ImagePath: "assets/avatar/hat/crown.png"},

	// Weapons
	{ID: "weapon-pencil", Name: "Giant Pencil", Layer: avatar.LayerWeapon, Rarity: avatar.RarityCommon, ImagePath: "assets/avatar/weapon/pencil.png"},
	{ID: "weapon-staff", Name: "Star Staff", Layer: avatar.LayerWeapon, Rarity: avatar.RarityEpic, ImagePath: "assets/avatar/weapon/staff.png"},
	{ID: "weapon-excalibur", Name: "Excalibur", Layer: avatar.LayerWeapon, Rarity: avatar.RarityMythic, ImagePath: "assets/avatar/weapon/excalibur.png", InventoryImagePath: "assets/avatar/weapon/excalibur_inv.png"},
}

// Static implements avatar.Catalog over the compiled-in item list.
type Static struct {
	byID  map[string]avatar.Item
	items []avatar.Item
}

// NewStatic builds the catalog index.
func NewStatic() *Static {
	byID := make(map[string]avatar.Item, len(avatarItems))
	for _, item := range avatarItems {
		byID[item.ID] = item
	}
	return &Static{byID: byID, items: avatarItems}
}

// Item returns an item by catalog ID.
func (c *Static) Item(id string) (avatar.Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Items returns all catalog items in definition order.
func (c *Static) Items() []avatar.Item {
	out := make([]avatar.Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemsByLayer returns catalog items drawn on the given layer.
func (c *Static) ItemsByLayer(layer avatar.LayerType) []avatar.Item {
	var out []avatar.Item
	for _, item := range c.items {
		if item.Layer == layer {
			out = append(out, item)
		}
	}
	return out
}

// SeedShopItems returns the starter set of teacher-authored coupons written
// into a class when its shop is first opened.
func SeedShopItems() []shop.Item {
	return []shop.Item{
		{ID: "seed-front-seat", Name: "Front Seat Pass", Description: "Pick your seat for one day", Price: 50, Type: shop.ItemTypeClass},
		{ID: "seed-homework-skip", Name: "Homework Pass", Description: "Skip one homework assignment", Price: 120, Type: shop.ItemTypeClass},
		{ID: "seed-music-choice", Name: "Class DJ", Description: "Choose the class music for a break", Price: 30, Type: shop.ItemTypeClass},
	}
}

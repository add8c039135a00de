// Package avatar содержит движок сборки аватара: раскладку экипированных
// предметов по слоям в фиксированном порядке отрисовки и работу
// с пользовательскими переименованиями предметов.
package avatar

import (
	"errors"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// LAYER TYPES
// ══════════════════════════════════════════════════════════════════════════════

// LayerType - анатомический слой аватара. Порядок отрисовки фиксирован
// и не зависит от порядка экипировки предметов.
type LayerType string

const (
	LayerHead   LayerType = "head"
	LayerBody   LayerType = "body"
	LayerHat    LayerType = "hat"
	LayerWeapon LayerType = "weapon"
)

// DrawOrder - порядок отрисовки слоёв: более поздние рисуются поверх ранних.
var DrawOrder = []LayerType{LayerHead, LayerBody, LayerHat, LayerWeapon}

// IsValid проверяет, что слой известен.
func (l LayerType) IsValid() bool {
	switch l {
	case LayerHead, LayerBody, LayerHat, LayerWeapon:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RARITY
// ══════════════════════════════════════════════════════════════════════════════

// Rarity - порядковая редкость предмета. Сравнения повсюду порядковые,
// а не только на равенство.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// rarityRank задаёт тотальный порядок из пяти ступеней.
var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      1,
	RarityEpic:      2,
	RarityLegendary: 3,
	RarityMythic:    4,
}

// Rank возвращает порядковый номер редкости (-1 для неизвестной).
func (r Rarity) Rank() int {
	if rank, ok := rarityRank[r]; ok {
		return rank
	}
	return -1
}

// IsValid проверяет, что редкость известна.
func (r Rarity) IsValid() bool {
	_, ok := rarityRank[r]
	return ok
}

// AtLeast возвращает true, если редкость не ниже переданной.
func (r Rarity) AtLeast(other Rarity) bool {
	return r.Rank() >= other.Rank()
}

// Compare возвращает -1/0/+1 как результат порядкового сравнения.
func (r Rarity) Compare(other Rarity) int {
	a, b := r.Rank(), other.Rank()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ITEMS & CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Item - предмет каталога. Каталог неизменяем: идентификаторы и имена
// предметов задаются определением ассетов и не редактируются пользователем.
type Item struct {
	// ID - стабильный каталожный идентификатор.
	ID string `json:"id"`

	// Name - каталожное имя предмета.
	Name string `json:"name"`

	// Layer - слой, на котором предмет рисуется.
	Layer LayerType `json:"layerType"`

	// Rarity - редкость предмета.
	Rarity Rarity `json:"rarity"`

	// ImagePath - путь к изображению для отрисовки на аватаре.
	ImagePath string `json:"imagePath"`

	// InventoryImagePath - путь к изображению для инвентаря.
	// Пустое значение означает использование ImagePath.
	InventoryImagePath string `json:"inventoryImagePath,omitempty"`
}

// InventoryImage возвращает изображение для инвентаря
// с откатом на основное изображение.
func (i Item) InventoryImage() string {
	if i.InventoryImagePath != "" {
		return i.InventoryImagePath
	}
	return i.ImagePath
}

// Catalog - доступ к неизменяемому каталогу предметов.
type Catalog interface {
	// Item возвращает предмет по каталожному ID.
	Item(id string) (Item, bool)

	// Items возвращает все предметы каталога.
	Items() []Item
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSITION
// ══════════════════════════════════════════════════════════════════════════════

// Layer - один слой собранного аватара.
type Layer struct {
	Type      LayerType
	ItemID    string
	ImagePath string
}

// Compose раскладывает экипированные предметы в стопку слоёв в порядке
// отрисовки: ранние элементы рисуются под поздними. Слои без экипировки
// и предметы, отсутствующие в каталоге, пропускаются - заглушки
// не рисуются. Результат зависит только от слоя предмета, не от порядка,
// в котором предметы были экипированы.
func Compose(equipped map[LayerType]string, catalog Catalog) []Layer {
	stack := make([]Layer, 0, len(DrawOrder))

	for _, layer := range DrawOrder {
		itemID, ok := equipped[layer]
		if !ok || itemID == "" {
			continue
		}

		item, ok := catalog.Item(itemID)
		if !ok {
			continue
		}

		stack = append(stack, Layer{
			Type:      layer,
			ItemID:    item.ID,
			ImagePath: item.ImagePath,
		})
	}

	return stack
}

// ══════════════════════════════════════════════════════════════════════════════
// DISPLAY-NAME OVERRIDES
// Переименования хранятся отдельно от каталога и влияют только на подпись,
// показываемую пользователю: сопоставление, фильтрация и редкость всегда
// работают с каталожными данными.
// ══════════════════════════════════════════════════════════════════════════════

// Overrides - карта переименований: каталожный ID -> подпись пользователя.
type Overrides map[string]string

// DisplayName возвращает переименование, если оно задано,
// иначе каталожное имя.
func DisplayName(item Item, overrides Overrides) string {
	if name, ok := overrides[item.ID]; ok && name != "" {
		return name
	}
	return item.Name
}

var (
	// ErrEmptyOverride - переименование пустое или состоит из пробелов.
	ErrEmptyOverride = errors.New("override name is empty")

	// ErrOverrideUnchanged - переименование совпадает с каталожным именем.
	ErrOverrideUnchanged = errors.New("override name equals catalog name")

	// ErrUnknownItem - предмет отсутствует в каталоге.
	ErrUnknownItem = errors.New("unknown catalog item")
)

// ValidateOverride проверяет переименование перед сохранением.
// Пустое значение и значение, совпадающее с каталожным именем, отклоняются
// до любой мутации.
func ValidateOverride(item Item, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyOverride
	}
	if name == item.Name {
		return "", ErrOverrideUnchanged
	}
	return name, nil
}

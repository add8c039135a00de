// Package shop содержит доменную модель магазина очков: товары,
// купленные записи и их погашение.
package shop

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ol2009/classquest-hub/internal/domain/avatar"
)

// ══════════════════════════════════════════════════════════════════════════════
// ITEM TYPES
// ══════════════════════════════════════════════════════════════════════════════

// ItemType - происхождение товара. Учительские купоны имеют тип "class",
// всё остальное (слои аватара и "avatar") управляется системой и для этой
// подсистемы доступно только на чтение.
type ItemType string

const (
	// ItemTypeClass - купон, заведённый учителем.
	ItemTypeClass ItemType = "class"

	// ItemTypeAvatar - системный товар-разблокировка косметики.
	ItemTypeAvatar ItemType = "avatar"
)

// IsTeacherAuthored возвращает true для товаров, которые учитель
// может создавать, редактировать и удалять.
func (t ItemType) IsTeacherAuthored() bool {
	return t == ItemTypeClass
}

// IsAvatarManaged возвращает true для системных косметических товаров.
// Такие записи обязаны отфильтровываться из любых форм редактирования.
func (t ItemType) IsAvatarManaged() bool {
	if t == ItemTypeAvatar {
		return true
	}
	return avatar.LayerType(t).IsValid()
}

// ══════════════════════════════════════════════════════════════════════════════
// SHOP ITEM
// ══════════════════════════════════════════════════════════════════════════════

// Item - товар магазина очков.
type Item struct {
	// ID - идентификатор товара.
	ID string `json:"id"`

	// Name - название товара.
	Name string `json:"name"`

	// Description - описание.
	Description string `json:"description"`

	// Price - цена в очках, строго положительная.
	Price int `json:"price"`

	// Type - происхождение товара.
	Type ItemType `json:"itemType"`
}

// Validate проверяет товар перед сохранением.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidItemName
	}
	if i.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PURCHASE RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Purchase - запись о покупке. Создаётся один раз; единственная
// разрешённая мутация - одноходовой переход used: false -> true
// с простановкой UsedDate. Погашенная запись терминальна.
type Purchase struct {
	// ID - идентификатор записи.
	ID string `json:"id"`

	// StudentID - кто купил.
	StudentID string `json:"studentId"`

	// ItemID - что куплено.
	ItemID string `json:"itemId"`

	// Timestamp - момент покупки.
	Timestamp time.Time `json:"timestamp"`

	// Used - погашена ли запись.
	Used bool `json:"used"`

	// UsedDate - момент погашения; ставится ровно один раз.
	UsedDate *time.Time `json:"usedDate,omitempty"`
}

// NewPurchase создаёт непогашенную запись о покупке.
// Проверка и списание баланса ученика остаются на вызывающей стороне:
// подсистема намеренно не навязывает этот инвариант.
func NewPurchase(id, studentID, itemID string, at time.Time) Purchase {
	return Purchase{
		ID:        id,
		StudentID: studentID,
		ItemID:    itemID,
		Timestamp: at,
		Used:      false,
	}
}

// MarkUsed переводит запись в погашенное состояние.
// Повторный вызов безопасен и ничего не меняет.
func (p *Purchase) MarkUsed(at time.Time) bool {
	if p.Used {
		return false
	}
	p.Used = true
	p.UsedDate = &at
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrItemNotFound - товар не найден.
	ErrItemNotFound = errors.New("shop item not found")

	// ErrPurchaseNotFound - запись о покупке не найдена.
	ErrPurchaseNotFound = errors.New("purchase record not found")

	// ErrInvalidItemName - пустое название товара.
	ErrInvalidItemName = errors.New("shop item name is required")

	// ErrInvalidPrice - цена не положительная.
	ErrInvalidPrice = errors.New("shop item price must be positive")

	// ErrSystemManagedItem - попытка мутировать системный товар.
	ErrSystemManagedItem = errors.New("system-managed shop items are read-only")
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Ledger владеет каталожными записями товаров и записями о покупках.
type Ledger interface {
	// ListItems возвращает все товары класса.
	ListItems(ctx context.Context, classID string) ([]Item, error)

	// AddItem добавляет учительский товар.
	// Возвращает ErrSystemManagedItem для системных типов.
	AddItem(ctx context.Context, classID string, item Item) error

	// EditItem обновляет учительский товар.
	EditItem(ctx context.Context, classID string, item Item) error

	// DeleteItem удаляет учительский товар. Отсутствующий ID - no-op.
	DeleteItem(ctx context.Context, classID, itemID string) error

	// ListPurchases возвращает записи о покупках класса.
	ListPurchases(ctx context.Context, classID string) ([]Purchase, error)

	// RecordPurchase добавляет непогашенную запись о покупке.
	RecordPurchase(ctx context.Context, classID string, p Purchase) error

	// MarkUsed погашает запись. Повторное погашение - no-op.
	MarkUsed(ctx context.Context, classID, purchaseID string, at time.Time) (*Purchase, error)
}

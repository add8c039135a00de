// Package recordstore defines the record-store adapter: generic get/set/remove
// over named string keys holding JSON snapshots of domain objects. Every
// repository in the system is built on top of this contract, so backends
// (Redis, PostgreSQL, in-memory) are interchangeable.
package recordstore

import (
	"context"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNotFound is returned when the requested key holds no snapshot.
	// Consumers treat it as "empty collection", never as a fault.
	ErrNotFound = errors.New("recordstore: key not found")

	// ErrKeyEmpty is returned when an empty key is provided.
	ErrKeyEmpty = errors.New("recordstore: key cannot be empty")

	// ErrSerialization is returned when a snapshot cannot be encoded or decoded.
	ErrSerialization = errors.New("recordstore: serialization failed")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("recordstore: store unavailable")
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

// Store is the record-store adapter. Values are persisted as JSON snapshots
// under opaque string keys. Implementations do not interpret snapshots.
type Store interface {
	// Get decodes the snapshot under key into dest.
	// Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set encodes value as JSON and persists it under key,
	// replacing any previous snapshot.
	Set(ctx context.Context, key string, value interface{}) error

	// Remove deletes the snapshot under key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends with a real connection to check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// KEY HELPERS
// Keys are namespaced by prefix; the layout mirrors the storage locations
// the repositories replicate between.
// ══════════════════════════════════════════════════════════════════════════════

// Key prefixes for namespacing store keys.
const (
	// PrefixStudents is the prefix of per-class authoritative student lists.
	PrefixStudents = "class:students:"

	// KeyClassRoster holds the all-classes aggregate.
	KeyClassRoster = "class:roster"

	// PrefixClassDetail is the prefix of per-class detail aggregates.
	PrefixClassDetail = "class:detail:"

	// PrefixShopItems is the prefix of per-class shop catalogs.
	PrefixShopItems = "shop:items:"

	// PrefixShopPurchases is the prefix of per-class purchase ledgers.
	PrefixShopPurchases = "shop:purchases:"

	// KeyAvatarNames holds the avatar display-name override map.
	KeyAvatarNames = "avatar:names"
)

// StudentsKey returns the key of a class's authoritative student list.
func StudentsKey(classID string) string {
	return PrefixStudents + classID
}

// ClassDetailKey returns the key of a class's detail aggregate.
func ClassDetailKey(classID string) string {
	return PrefixClassDetail + classID
}

// ShopItemsKey returns the key of a class's shop catalog.
func ShopItemsKey(classID string) string {
	return PrefixShopItems + classID
}

// ShopPurchasesKey returns the key of a class's purchase ledger.
func ShopPurchasesKey(classID string) string {
	return PrefixShopPurchases + classID
}

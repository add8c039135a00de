package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ol2009/classquest-hub/internal/domain/class"
	"github.com/ol2009/classquest-hub/internal/domain/shop"
	"github.com/ol2009/classquest-hub/internal/domain/student"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/memory"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
)

// ─────────────────────────────────────────────────────────────────────────────
// StudentRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestStudentRepository_ListAbsentIsEmpty(t *testing.T) {
	repo := NewStudentRepository(memory.NewStore(), nil)

	students, err := repo.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentRepository_ListMalformedDegradesToEmpty(t *testing.T) {
	store := memory.NewStore()
	store.SetRaw(recordstore.StudentsKey("c1"), []byte(`{"oops":`))

	repo := NewStudentRepository(store, nil)

	students, err := repo.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentRepository_ReplaceAndGet(t *testing.T) {
	repo := NewStudentRepository(memory.NewStore(), nil)
	ctx := context.Background()

	list := []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Stats: &student.Stats{Level: 1, Exp: 10}},
		{ID: "s2", Number: 2, Name: "Lee"},
	}
	require.NoError(t, repo.Replace(ctx, "c1", list))

	got, err := repo.Get(ctx, "c1", "s2")
	require.NoError(t, err)
	assert.Equal(t, "Lee", got.Name)

	_, err = repo.Get(ctx, "c1", "nope")
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestStudentRepository_SaveReplacesByID(t *testing.T) {
	repo := NewStudentRepository(memory.NewStore(), nil)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, "c1", []student.Student{
		{ID: "s1", Number: 1, Name: "Kim"},
		{ID: "s2", Number: 2, Name: "Lee"},
	}))

	require.NoError(t, repo.Save(ctx, "c1", student.Student{ID: "s2", Number: 2, Name: "Lee Jr", Points: 30}))

	got, err := repo.Get(ctx, "c1", "s2")
	require.NoError(t, err)
	assert.Equal(t, "Lee Jr", got.Name)
	assert.Equal(t, student.Points(30), got.Points)

	err = repo.Save(ctx, "c1", student.Student{ID: "ghost", Name: "X"})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestStudentRepository_ReplaceNilWritesEmptyList(t *testing.T) {
	store := memory.NewStore()
	repo := NewStudentRepository(store, nil)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, "c1", nil))

	students, err := repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

// ─────────────────────────────────────────────────────────────────────────────
// ViewReplicator
// ─────────────────────────────────────────────────────────────────────────────

func seedAggregates(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	detail := class.Info{
		ID:   "c1",
		Name: "3-A",
		Students: class.EmbeddedRoster([]student.Student{
			{ID: "s1", Name: "Kim", Stats: &student.Stats{Level: 1, Exp: 250}},
		}),
	}
	require.NoError(t, store.Set(ctx, recordstore.ClassDetailKey("c1"), detail))

	roster := class.List{
		{ID: "c1", Name: "3-A", Students: class.SummaryRoster(1)},
		{ID: "c2", Name: "3-B", Students: class.SummaryRoster(5)},
	}
	require.NoError(t, store.Set(ctx, recordstore.KeyClassRoster, roster))
}

func TestPropagateList_UpdatesBothAggregates(t *testing.T) {
	store := memory.NewStore()
	seedAggregates(t, store)

	repl := NewViewReplicator(store, nil)
	ctx := context.Background()

	updated := []student.Student{
		{ID: "s1", Name: "Kim"},
		{ID: "s2", Name: "Lee"},
	}
	errs := repl.PropagateList(ctx, "c1", updated)
	assert.Empty(t, errs)

	detail, err := repl.LoadDetail(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, class.RosterEmbedded, detail.Students.Kind)
	assert.Equal(t, 2, detail.Students.Len())

	roster, err := repl.LoadRoster(ctx)
	require.NoError(t, err)
	idx := roster.Find("c1")
	require.GreaterOrEqual(t, idx, 0)
	// The summary entry keeps its shape, only the count moves.
	assert.Equal(t, class.RosterSummary, roster[idx].Students.Kind)
	assert.Equal(t, 2, roster[idx].Students.Len())

	// The untouched class keeps its entry.
	other := roster.Find("c2")
	require.GreaterOrEqual(t, other, 0)
	assert.Equal(t, 5, roster[other].Students.Len())
}

func TestPropagateList_AbsentAggregatesAreSkipped(t *testing.T) {
	repl := NewViewReplicator(memory.NewStore(), nil)

	errs := repl.PropagateList(context.Background(), "c1", []student.Student{{ID: "s1"}})
	assert.Empty(t, errs)
}

func TestPropagateStats_PatchesEmbeddedCopies(t *testing.T) {
	store := memory.NewStore()
	seedAggregates(t, store)

	repl := NewViewReplicator(store, nil)
	ctx := context.Background()

	errs := repl.PropagateStats(ctx, "c1", []student.Student{
		{ID: "s1", Name: "RENAMED", Stats: &student.Stats{Level: 1, Exp: 25}},
	})
	assert.Empty(t, errs)

	detail, err := repl.LoadDetail(ctx, "c1")
	require.NoError(t, err)
	embedded := detail.Students.Students
	require.Len(t, embedded, 1)
	assert.Equal(t, student.Exp(25), embedded[0].Stats.Exp)
	// Only stats travel; other fields of the copy stay untouched.
	assert.Equal(t, "Kim", embedded[0].Name)
}

func TestLoadDetail_Absent(t *testing.T) {
	repl := NewViewReplicator(memory.NewStore(), nil)

	_, err := repl.LoadDetail(context.Background(), "ghost")
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// ShopLedger
// ─────────────────────────────────────────────────────────────────────────────

func TestShopLedger_ItemLifecycle(t *testing.T) {
	ledger := NewShopLedger(memory.NewStore(), nil)
	ctx := context.Background()

	item := shop.Item{ID: "i1", Name: "Front Seat", Price: 50, Type: shop.ItemTypeClass}
	require.NoError(t, ledger.AddItem(ctx, "c1", item))

	item.Name = "Front Seat Pass"
	item.Price = 60
	require.NoError(t, ledger.EditItem(ctx, "c1", item))

	items, err := ledger.ListItems(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Front Seat Pass", items[0].Name)
	assert.Equal(t, 60, items[0].Price)

	require.NoError(t, ledger.DeleteItem(ctx, "c1", "i1"))
	items, err = ledger.ListItems(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShopLedger_SystemManagedIsReadOnly(t *testing.T) {
	store := memory.NewStore()
	ledger := NewShopLedger(store, nil)
	ctx := context.Background()

	// Seed a system-managed entry directly, as the avatar subsystem would.
	require.NoError(t, store.Set(ctx, recordstore.ShopItemsKey("c1"), []shop.Item{
		{ID: "sys1", Name: "Wizard Hat Unlock", Price: 100, Type: shop.ItemTypeAvatar},
	}))

	err := ledger.AddItem(ctx, "c1", shop.Item{ID: "x", Name: "X", Price: 1, Type: shop.ItemTypeAvatar})
	assert.ErrorIs(t, err, shop.ErrSystemManagedItem)

	err = ledger.EditItem(ctx, "c1", shop.Item{ID: "sys1", Name: "Hacked", Price: 1})
	assert.ErrorIs(t, err, shop.ErrSystemManagedItem)

	err = ledger.DeleteItem(ctx, "c1", "sys1")
	assert.ErrorIs(t, err, shop.ErrSystemManagedItem)
}

func TestShopLedger_DeleteMissingIsNoop(t *testing.T) {
	ledger := NewShopLedger(memory.NewStore(), nil)
	assert.NoError(t, ledger.DeleteItem(context.Background(), "c1", "ghost"))
}

func TestShopLedger_EditMissing(t *testing.T) {
	ledger := NewShopLedger(memory.NewStore(), nil)
	err := ledger.EditItem(context.Background(), "c1", shop.Item{ID: "ghost", Name: "X", Price: 1})
	assert.ErrorIs(t, err, shop.ErrItemNotFound)
}

func TestShopLedger_MarkUsedRepeatIsNoop(t *testing.T) {
	ledger := NewShopLedger(memory.NewStore(), nil)
	ctx := context.Background()

	bought := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.RecordPurchase(ctx, "c1", shop.NewPurchase("p1", "s1", "i1", bought)))

	first := bought.Add(time.Hour)
	p, err := ledger.MarkUsed(ctx, "c1", "p1", first)
	require.NoError(t, err)
	assert.True(t, p.Used)
	require.NotNil(t, p.UsedDate)
	assert.True(t, p.UsedDate.Equal(first))

	// Second redemption returns the record unchanged.
	p, err = ledger.MarkUsed(ctx, "c1", "p1", first.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, p.UsedDate)
	assert.True(t, p.UsedDate.Equal(first))
}

func TestShopLedger_MarkUsedMissing(t *testing.T) {
	ledger := NewShopLedger(memory.NewStore(), nil)

	_, err := ledger.MarkUsed(context.Background(), "c1", "ghost", time.Now())
	assert.ErrorIs(t, err, shop.ErrPurchaseNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// OverrideStore
// ─────────────────────────────────────────────────────────────────────────────

func TestOverrideStore_RoundTrip(t *testing.T) {
	store := NewOverrideStore(memory.NewStore(), nil)
	ctx := context.Background()

	overrides, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, overrides)

	overrides["hat-1"] = "My Hat"
	require.NoError(t, store.Save(ctx, overrides))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Hat", got["hat-1"])
}

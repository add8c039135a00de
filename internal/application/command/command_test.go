package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ol2009/classquest-hub/internal/catalog"
	"github.com/ol2009/classquest-hub/internal/domain/avatar"
	"github.com/ol2009/classquest-hub/internal/domain/class"
	"github.com/ol2009/classquest-hub/internal/domain/shop"
	"github.com/ol2009/classquest-hub/internal/domain/student"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/memory"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/records"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
)

type fixture struct {
	store      *memory.Store
	repo       *records.StudentRepository
	replicator *records.ViewReplicator
	ledger     *records.ShopLedger
	overrides  *records.OverrideStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:      store,
		repo:       records.NewStudentRepository(store, nil),
		replicator: records.NewViewReplicator(store, nil),
		ledger:     records.NewShopLedger(store, nil),
		overrides:  records.NewOverrideStore(store, nil),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AddStudents
// ─────────────────────────────────────────────────────────────────────────────

func TestAddStudents_ParsesAndNumbers(t *testing.T) {
	f := newFixture(t)
	h := NewAddStudentsHandler(f.repo, nil)

	res, err := h.Handle(context.Background(), AddStudentsCommand{
		ClassID:  "c1",
		RawNames: "Kim, Lee  Park",
	})
	require.NoError(t, err)

	require.Len(t, res.Added, 3)
	assert.Equal(t, 3, res.Total)

	assert.Equal(t, "Kim", res.Added[0].Name)
	assert.Equal(t, 1, res.Added[0].Number)
	assert.Equal(t, "Lee", res.Added[1].Name)
	assert.Equal(t, 2, res.Added[1].Number)
	assert.Equal(t, "Park", res.Added[2].Name)
	assert.Equal(t, 3, res.Added[2].Number)

	for _, s := range res.Added {
		assert.NotEmpty(t, s.ID)
		require.NotNil(t, s.Stats)
		assert.Equal(t, student.Level(1), s.Stats.Level)
		assert.Equal(t, student.Exp(0), s.Stats.Exp)
	}
}

func TestAddStudents_ContinuesNumbering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repo.Replace(ctx, "c1", []student.Student{
		{ID: "s1", Number: 1, Name: "Kim"},
		{ID: "s2", Number: 2, Name: "Lee"},
	}))

	h := NewAddStudentsHandler(f.repo, nil)
	res, err := h.Handle(ctx, AddStudentsCommand{ClassID: "c1", RawNames: "Park"})
	require.NoError(t, err)

	require.Len(t, res.Added, 1)
	assert.Equal(t, 3, res.Added[0].Number)
	assert.Equal(t, 3, res.Total)
}

func TestAddStudents_EmptyInputDeclined(t *testing.T) {
	f := newFixture(t)
	h := NewAddStudentsHandler(f.repo, nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, AddStudentsCommand{ClassID: "c1", RawNames: " , ,\n"})
	assert.ErrorIs(t, err, student.ErrEmptyNameList)

	// Nothing was written.
	students, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, students)
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteStudent
// ─────────────────────────────────────────────────────────────────────────────

func seedClassAggregates(t *testing.T, f *fixture, students []student.Student) {
	t.Helper()
	ctx := context.Background()

	detail := class.Info{ID: "c1", Name: "3-A", Students: class.EmbeddedRoster(students)}
	require.NoError(t, f.store.Set(ctx, recordstore.ClassDetailKey("c1"), detail))

	roster := class.List{{ID: "c1", Name: "3-A", Students: class.SummaryRoster(len(students))}}
	require.NoError(t, f.store.Set(ctx, recordstore.KeyClassRoster, roster))
}

func TestUpdateStudent_EditsAndPropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Points: 10},
		{ID: "s2", Number: 2, Name: "Lee"},
	}
	require.NoError(t, f.repo.Replace(ctx, "c1", list))
	seedClassAggregates(t, f, list)

	points := 75
	h := NewUpdateStudentHandler(f.repo, f.replicator, nil)
	res, err := h.Handle(ctx, UpdateStudentCommand{
		ClassID:   "c1",
		StudentID: "s1",
		Name:      "Kim Jr",
		Points:    &points,
	})
	require.NoError(t, err)
	assert.Empty(t, res.ReplicationErrors)
	assert.Equal(t, "Kim Jr", res.Student.Name)
	assert.Equal(t, student.Points(75), res.Student.Points)

	after, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Kim Jr", after[0].Name)
	assert.Equal(t, 1, after[0].Number)
	assert.Equal(t, "Lee", after[1].Name)

	detail, err := f.replicator.LoadDetail(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Kim Jr", detail.Students.Students[0].Name)
}

func TestUpdateStudent_Declined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Replace(ctx, "c1", []student.Student{
		{ID: "s1", Number: 1, Name: "Kim"},
	}))

	h := NewUpdateStudentHandler(f.repo, f.replicator, nil)

	// No fields to change.
	_, err := h.Handle(ctx, UpdateStudentCommand{ClassID: "c1", StudentID: "s1"})
	assert.Error(t, err)

	// Unknown student.
	_, err = h.Handle(ctx, UpdateStudentCommand{ClassID: "c1", StudentID: "ghost", Name: "X"})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestDeleteStudent_RemovesAndPropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := []student.Student{
		{ID: "s1", Number: 1, Name: "Kim"},
		{ID: "s2", Number: 2, Name: "Lee"},
		{ID: "s3", Number: 3, Name: "Park"},
	}
	require.NoError(t, f.repo.Replace(ctx, "c1", list))
	seedClassAggregates(t, f, list)

	h := NewDeleteStudentHandler(f.repo, f.replicator, nil)
	res, err := h.Handle(ctx, DeleteStudentCommand{ClassID: "c1", StudentID: "s2"})
	require.NoError(t, err)

	assert.True(t, res.Removed)
	assert.Equal(t, 2, res.Total)
	assert.Empty(t, res.ReplicationErrors)

	// Survivors keep their numbers; the sequence now has a gap.
	remaining, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, 1, remaining[0].Number)
	assert.Equal(t, 3, remaining[1].Number)

	// Both derived views agree with the authoritative list.
	detail, err := f.replicator.LoadDetail(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Students.Len())

	roster, err := f.replicator.LoadRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, roster[roster.Find("c1")].Students.Len())
}

func TestDeleteStudent_MissingIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := []student.Student{{ID: "s1", Number: 1, Name: "Kim"}}
	require.NoError(t, f.repo.Replace(ctx, "c1", list))

	h := NewDeleteStudentHandler(f.repo, f.replicator, nil)
	res, err := h.Handle(ctx, DeleteStudentCommand{ClassID: "c1", StudentID: "ghost"})
	require.NoError(t, err)

	assert.False(t, res.Removed)
	assert.Equal(t, 1, res.Total)

	remaining, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// ResetClass
// ─────────────────────────────────────────────────────────────────────────────

func TestResetClass_WipesProgressKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Honorific: "Sage", IconType: "icon-x",
			Stats: &student.Stats{Level: 7, Exp: 80}, Points: 300},
		{ID: "s2", Number: 2, Name: "Lee", Honorific: "Guardian",
			Stats: &student.Stats{Level: 3, Exp: 40}, Points: 50},
	}
	require.NoError(t, f.repo.Replace(ctx, "c1", list))
	seedClassAggregates(t, f, list)

	h := NewResetClassHandler(f.repo, f.replicator, nil, student.FixedPicker(1))
	res, err := h.Handle(ctx, ResetClassCommand{ClassID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.ResetCount)
	assert.Empty(t, res.ReplicationErrors)

	after, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	for i, s := range after {
		assert.Equal(t, list[i].ID, s.ID)
		assert.Equal(t, list[i].Number, s.Number)
		assert.Equal(t, list[i].Name, s.Name)
		assert.Empty(t, s.Honorific)
		assert.Equal(t, student.ResetIconPool[1], s.IconType)
		assert.Equal(t, student.Points(0), s.Points)
		require.NotNil(t, s.Stats)
		assert.Equal(t, student.Level(0), s.Stats.Level)
		assert.Equal(t, student.Exp(0), s.Stats.Exp)
	}
}

func TestResetClass_EmptyClass(t *testing.T) {
	f := newFixture(t)

	h := NewResetClassHandler(f.repo, f.replicator, nil, student.FixedPicker(0))
	res, err := h.Handle(context.Background(), ResetClassCommand{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResetCount)
}

// ─────────────────────────────────────────────────────────────────────────────
// NormalizeExp
// ─────────────────────────────────────────────────────────────────────────────

func TestNormalizeClassExp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Stats: &student.Stats{Level: 5, Exp: 250}},
		{ID: "s2", Number: 2, Name: "Lee", Stats: &student.Stats{Level: 2, Exp: 99}},
		{ID: "s3", Number: 3, Name: "Park"}, // stats block missing entirely
	}
	require.NoError(t, f.repo.Replace(ctx, "c1", list))
	seedClassAggregates(t, f, list)

	h := NewNormalizeClassExpHandler(f.repo, f.replicator, nil, nil)
	res, err := h.Handle(ctx, NormalizeClassExpCommand{ClassID: "c1"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Processed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "s3")

	after, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, student.Exp(25), after[0].Stats.Exp)
	assert.Equal(t, student.Exp(99), after[1].Stats.Exp)
	require.NotNil(t, after[2].Stats)
	assert.Equal(t, student.Level(1), after[2].Stats.Level)

	// The detail aggregate's embedded copy got the repaired stats.
	detail, err := f.replicator.LoadDetail(ctx, "c1")
	require.NoError(t, err)
	embedded := detail.Students.Students
	require.Len(t, embedded, 3)
	assert.Equal(t, student.Exp(25), embedded[0].Stats.Exp)
}

func TestNormalizeClassExp_BackfillDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Replace(ctx, "c1", []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Stats: &student.Stats{Level: 5, Exp: 250}},
		{ID: "s2", Number: 2, Name: "Lee"},
	}))

	h := NewNormalizeClassExpHandler(f.repo, f.replicator, nil, nil).WithStatsBackfill(false)
	res, err := h.Handle(ctx, NormalizeClassExpCommand{ClassID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "skipped")

	after, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, student.Exp(25), after[0].Stats.Exp)
	assert.Nil(t, after[1].Stats)
}

func TestNormalizeClassExp_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Replace(ctx, "c1", []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Stats: &student.Stats{Level: 5, Exp: 250}},
	}))

	h := NewNormalizeClassExpHandler(f.repo, f.replicator, nil, nil)

	res, err := h.Handle(ctx, NormalizeClassExpCommand{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	res, err = h.Handle(ctx, NormalizeClassExpCommand{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Empty(t, res.Errors)

	after, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, student.Exp(25), after[0].Stats.Exp)
}

func TestNormalizeStudentExp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Replace(ctx, "c1", []student.Student{
		{ID: "s1", Number: 1, Name: "Kim", Stats: &student.Stats{Level: 5, Exp: 300}},
		{ID: "s2", Number: 2, Name: "Lee", Stats: &student.Stats{Level: 2, Exp: 500}},
	}))

	h := NewNormalizeStudentExpHandler(f.repo)
	res, err := h.Handle(ctx, NormalizeStudentExpCommand{ClassID: "c1", StudentID: "s1"})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, student.Exp(30), res.Exp)

	// The other student is untouched by the single repair.
	after, err := f.repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, student.Exp(500), after[1].Stats.Exp)
}

func TestNormalizeStudentExp_NotFound(t *testing.T) {
	f := newFixture(t)

	h := NewNormalizeStudentExpHandler(f.repo)
	_, err := h.Handle(context.Background(), NormalizeStudentExpCommand{ClassID: "c1", StudentID: "ghost"})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Shop
// ─────────────────────────────────────────────────────────────────────────────

func TestShopItems_AddValidation(t *testing.T) {
	f := newFixture(t)
	h := NewShopItemsHandler(f.ledger, nil)
	ctx := context.Background()

	_, err := h.HandleAdd(ctx, AddShopItemCommand{ClassID: "c1", Name: "", Price: 10})
	assert.Error(t, err)

	_, err = h.HandleAdd(ctx, AddShopItemCommand{ClassID: "c1", Name: "Pass", Price: -5})
	assert.Error(t, err)

	res, err := h.HandleAdd(ctx, AddShopItemCommand{ClassID: "c1", Name: "Pass", Price: 10})
	require.NoError(t, err)
	assert.Equal(t, shop.ItemTypeClass, res.Item.Type)
	assert.NotEmpty(t, res.Item.ID)
}

func TestPurchases_RecordRequiresExistingItem(t *testing.T) {
	f := newFixture(t)
	h := NewPurchasesHandler(f.ledger, nil)

	_, err := h.HandleRecord(context.Background(), RecordPurchaseCommand{
		ClassID: "c1", StudentID: "s1", ItemID: "ghost",
	})
	assert.ErrorIs(t, err, shop.ErrItemNotFound)
}

func TestPurchases_RecordAndRedeem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	items := NewShopItemsHandler(f.ledger, nil)
	added, err := items.HandleAdd(ctx, AddShopItemCommand{ClassID: "c1", Name: "Pass", Price: 10})
	require.NoError(t, err)

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	h := NewPurchasesHandler(f.ledger, nil).WithClock(func() time.Time { return now })

	rec, err := h.HandleRecord(ctx, RecordPurchaseCommand{
		ClassID: "c1", StudentID: "s1", ItemID: added.Item.ID,
	})
	require.NoError(t, err)
	assert.False(t, rec.Purchase.Used)

	used, err := h.HandleMarkUsed(ctx, MarkPurchaseUsedCommand{
		ClassID: "c1", PurchaseID: rec.Purchase.ID,
	})
	require.NoError(t, err)
	assert.True(t, used.Purchase.Used)
	require.NotNil(t, used.Purchase.UsedDate)
	assert.True(t, used.Purchase.UsedDate.Equal(now))

	// Redeeming again keeps the first redemption time.
	later := now.Add(time.Hour)
	again, err := h.WithClock(func() time.Time { return later }).
		HandleMarkUsed(ctx, MarkPurchaseUsedCommand{ClassID: "c1", PurchaseID: rec.Purchase.ID})
	require.NoError(t, err)
	require.NotNil(t, again.Purchase.UsedDate)
	assert.True(t, again.Purchase.UsedDate.Equal(now))
}

// ─────────────────────────────────────────────────────────────────────────────
// RenameItem
// ─────────────────────────────────────────────────────────────────────────────

func TestRenameItem(t *testing.T) {
	f := newFixture(t)
	items := catalog.NewStatic()
	h := NewRenameItemHandler(items, f.overrides, nil)
	ctx := context.Background()

	res, err := h.Handle(ctx, RenameItemCommand{ItemID: "hat-wizard", NewName: "  Star Hat  "})
	require.NoError(t, err)
	assert.Equal(t, "Star Hat", res.Name)

	overrides, err := f.overrides.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Star Hat", overrides["hat-wizard"])
}

func TestRenameItem_Declined(t *testing.T) {
	f := newFixture(t)
	items := catalog.NewStatic()
	h := NewRenameItemHandler(items, f.overrides, nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, RenameItemCommand{ItemID: "ghost", NewName: "X"})
	assert.ErrorIs(t, err, avatar.ErrUnknownItem)

	_, err = h.Handle(ctx, RenameItemCommand{ItemID: "hat-wizard", NewName: "   "})
	assert.ErrorIs(t, err, avatar.ErrEmptyOverride)

	_, err = h.Handle(ctx, RenameItemCommand{ItemID: "hat-wizard", NewName: "Wizard Hat"})
	assert.ErrorIs(t, err, avatar.ErrOverrideUnchanged)

	// Nothing was persisted by the declined attempts.
	overrides, err := f.overrides.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

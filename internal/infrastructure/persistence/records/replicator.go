package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/class"
	"github.com/ol2009/classquest-hub/internal/domain/student"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
	"github.com/ol2009/classquest-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW REPLICATOR
// The class roster and class detail aggregates each embed a denormalized copy
// of the student list. After an authoritative mutation this replicator brings
// both copies up to date. The copies are best effort: an absent aggregate is
// skipped silently, and a failed write is reported but never rolls back the
// authoritative update, which has already been committed by then.
// ══════════════════════════════════════════════════════════════════════════════

// ViewReplicator implements student.Replicator over the record store.
type ViewReplicator struct {
	store recordstore.Store
	log   *logger.Logger
}

// NewViewReplicator creates a new ViewReplicator.
func NewViewReplicator(store recordstore.Store, log *logger.Logger) *ViewReplicator {
	if log == nil {
		log = logger.Default()
	}
	return &ViewReplicator{
		store: store,
		log:   log.With(logger.Component("view_replicator")),
	}
}

// PropagateList overwrites the embedded student lists in both aggregates.
func (r *ViewReplicator) PropagateList(ctx context.Context, classID string, students []student.Student) []string {
	return r.propagate(ctx, classID, students, func(info *class.Info) {
		info.SetStudents(students)
	})
}

// PropagateStats copies only the stats field into the embedded student
// copies, matched by student ID. Non-matching embedded students and every
// other field stay untouched.
func (r *ViewReplicator) PropagateStats(ctx context.Context, classID string, students []student.Student) []string {
	return r.propagate(ctx, classID, students, func(info *class.Info) {
		info.PatchStats(students)
	})
}

// propagate applies patch to the class detail aggregate and to the class
// roster entry of the given class, collecting per-aggregate errors.
func (r *ViewReplicator) propagate(
	ctx context.Context,
	classID string,
	students []student.Student,
	patch func(*class.Info),
) []string {
	var errs []string

	if err := r.patchDetail(ctx, classID, patch); err != nil {
		r.log.Warn("class detail propagation failed", logger.ClassID(classID), logger.Err(err))
		errs = append(errs, fmt.Sprintf("class detail %s: %v", classID, err))
	}

	if err := r.patchRosterEntry(ctx, classID, patch); err != nil {
		r.log.Warn("class roster propagation failed", logger.ClassID(classID), logger.Err(err))
		errs = append(errs, fmt.Sprintf("class roster %s: %v", classID, err))
	}

	return errs
}

// patchDetail rewrites the per-class detail aggregate, if present.
func (r *ViewReplicator) patchDetail(ctx context.Context, classID string, patch func(*class.Info)) error {
	key := recordstore.ClassDetailKey(classID)

	var detail class.Info
	err := r.store.Get(ctx, key, &detail)
	if errors.Is(err, recordstore.ErrNotFound) {
		// No detail aggregate for this class: nothing to update.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	patch(&detail)

	if err := r.store.Set(ctx, key, detail); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// patchRosterEntry rewrites this class's entry in the all-classes roster,
// if both the roster and the entry exist.
func (r *ViewReplicator) patchRosterEntry(ctx context.Context, classID string, patch func(*class.Info)) error {
	var roster class.List
	err := r.store.Get(ctx, recordstore.KeyClassRoster, &roster)
	if errors.Is(err, recordstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	idx := roster.Find(classID)
	if idx < 0 {
		// The roster exists but does not know this class: skip.
		return nil
	}

	patch(&roster[idx])

	if err := r.store.Set(ctx, recordstore.KeyClassRoster, roster); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATE READS
// Used by queries that show class summaries; exposed here so readers share
// the same absent-means-empty handling as the replicator.
// ══════════════════════════════════════════════════════════════════════════════

// LoadRoster returns the all-classes aggregate, empty when absent.
func (r *ViewReplicator) LoadRoster(ctx context.Context) (class.List, error) {
	var roster class.List
	err := r.store.Get(ctx, recordstore.KeyClassRoster, &roster)
	if errors.Is(err, recordstore.ErrNotFound) {
		return class.List{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}

// LoadDetail returns a class detail aggregate.
// Returns class.ErrClassNotFound when absent.
func (r *ViewReplicator) LoadDetail(ctx context.Context, classID string) (*class.Info, error) {
	var detail class.Info
	err := r.store.Get(ctx, recordstore.ClassDetailKey(classID), &detail)
	if errors.Is(err, recordstore.ErrNotFound) {
		return nil, class.ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load detail: %w", err)
	}
	return &detail, nil
}

package command

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
	"github.com/ol2009/classquest-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// NORMALIZE EXP COMMANDS
// Repairs legacy ten-fold exp values across a class or for one student.
// Values at or above the legacy threshold are rescaled down; everything
// below the threshold is left untouched, which makes the pass idempotent.
// ══════════════════════════════════════════════════════════════════════════════

// NormalizeClassExpCommand repairs the exp of every student in a class.
type NormalizeClassExpCommand struct {
	// ClassID identifies the class to repair.
	ClassID string
}

// Validate validates the command.
func (c NormalizeClassExpCommand) Validate() error {
	if c.ClassID == "" {
		return fmt.Errorf("normalize_exp: class_id is required")
	}
	return nil
}

// NormalizeClassExpResult reports the outcome of a class-wide pass.
type NormalizeClassExpResult struct {
	// Success is false only when the authoritative list could not be
	// read or written. Per-student repairs and replication failures are
	// reported through Errors instead.
	Success bool

	// Message is a human-readable summary of the pass.
	Message string

	// Processed is the number of students whose exp was rescaled.
	Processed int

	// Errors lists non-fatal problems: reinitialized stats blocks and
	// derived-view writes that failed.
	Errors []string
}

// NormalizeClassExpHandler handles the NormalizeClassExpCommand.
type NormalizeClassExpHandler struct {
	repo       student.Repository
	replicator student.Replicator
	publisher  shared.EventPublisher
	log        *logger.Logger
	backfill   bool
}

// NewNormalizeClassExpHandler creates a new NormalizeClassExpHandler.
func NewNormalizeClassExpHandler(
	repo student.Repository,
	replicator student.Replicator,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *NormalizeClassExpHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &NormalizeClassExpHandler{
		repo:       repo,
		replicator: replicator,
		publisher:  publisher,
		log:        log.With(logger.Component("normalize_exp")),
		backfill:   true,
	}
}

// WithStatsBackfill toggles the reinitialization of missing stats blocks.
// When disabled, students without stats are left alone and reported.
func (h *NormalizeClassExpHandler) WithStatsBackfill(enabled bool) *NormalizeClassExpHandler {
	h.backfill = enabled
	return h
}

// Handle executes the class-wide normalization pass.
func (h *NormalizeClassExpHandler) Handle(ctx context.Context, cmd NormalizeClassExpCommand) (*NormalizeClassExpResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	students, err := h.repo.List(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("normalize_exp: %w", err)
	}

	outcome := student.NormalizeOutcome{}
	changed := false

	for i := range students {
		if students[i].Stats == nil {
			if !h.backfill {
				outcome.Errors = append(outcome.Errors,
					fmt.Sprintf("student %s: stats block missing, skipped", students[i].ID))
				continue
			}
			students[i].EnsureStats()
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("student %s: stats block missing, reinitialized", students[i].ID))
			changed = true
		}
		if students[i].NormalizeExp() {
			outcome.Processed++
			changed = true
		}
	}

	if changed {
		if err := h.repo.Replace(ctx, cmd.ClassID, students); err != nil {
			return nil, fmt.Errorf("normalize_exp: %w", err)
		}
		outcome.Errors = append(outcome.Errors,
			h.replicator.PropagateStats(ctx, cmd.ClassID, students)...)
	}

	h.log.Info("normalization pass finished",
		logger.ClassID(cmd.ClassID),
		logger.ProcessedCount(outcome.Processed),
		logger.Int("error_count", len(outcome.Errors)))

	_ = h.publisher.Publish(shared.NewExpNormalizedEvent(
		cmd.ClassID, outcome.Processed, len(outcome.Errors)))

	return &NormalizeClassExpResult{
		Success:   true,
		Message:   fmt.Sprintf("normalized exp for %d students", outcome.Processed),
		Processed: outcome.Processed,
		Errors:    outcome.Errors,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SINGLE-STUDENT VARIANT
// ══════════════════════════════════════════════════════════════════════════════

// NormalizeStudentExpCommand repairs one student's exp in place.
type NormalizeStudentExpCommand struct {
	ClassID   string
	StudentID string
}

// Validate validates the command.
func (c NormalizeStudentExpCommand) Validate() error {
	if c.ClassID == "" {
		return fmt.Errorf("normalize_exp: class_id is required")
	}
	if c.StudentID == "" {
		return fmt.Errorf("normalize_exp: student_id is required")
	}
	return nil
}

// NormalizeStudentExpResult reports the outcome of a single-student repair.
type NormalizeStudentExpResult struct {
	// Changed is true when the exp value was rescaled.
	Changed bool

	// Exp is the exp value after the repair.
	Exp student.Exp
}

// NormalizeStudentExpHandler handles the single-student repair. It updates
// only the authoritative list; derived aggregates catch up on the next
// class-wide pass.
type NormalizeStudentExpHandler struct {
	repo student.Repository
}

// NewNormalizeStudentExpHandler creates a new NormalizeStudentExpHandler.
func NewNormalizeStudentExpHandler(repo student.Repository) *NormalizeStudentExpHandler {
	return &NormalizeStudentExpHandler{repo: repo}
}

// Handle executes the single-student repair.
func (h *NormalizeStudentExpHandler) Handle(ctx context.Context, cmd NormalizeStudentExpCommand) (*NormalizeStudentExpResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	students, err := h.repo.List(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("normalize_exp: %w", err)
	}

	for i := range students {
		if students[i].ID != cmd.StudentID {
			continue
		}

		students[i].EnsureStats()
		changed := students[i].NormalizeExp()

		if changed {
			if err := h.repo.Replace(ctx, cmd.ClassID, students); err != nil {
				return nil, fmt.Errorf("normalize_exp: %w", err)
			}
		}

		return &NormalizeStudentExpResult{
			Changed: changed,
			Exp:     students[i].Stats.Exp,
		}, nil
	}

	return nil, student.ErrStudentNotFound
}

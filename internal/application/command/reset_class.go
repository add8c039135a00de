package command

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET CLASS COMMAND
// Destructive bulk reset of every student's progress in a class.
// ══════════════════════════════════════════════════════════════════════════════

// ResetClassCommand wipes the progress of every student in a class.
// Identity fields (ID, number, name) survive; honorifics, stats, points
// and icons do not. There is no undo.
type ResetClassCommand struct {
	// ClassID identifies the class to reset.
	ClassID string
}

// Validate validates the command.
func (c ResetClassCommand) Validate() error {
	if c.ClassID == "" {
		return fmt.Errorf("reset_class: class_id is required")
	}
	return nil
}

// ResetClassResult contains the result of the reset.
type ResetClassResult struct {
	// ResetCount is the number of students whose progress was wiped.
	ResetCount int

	// ReplicationErrors lists derived-view writes that failed.
	ReplicationErrors []string
}

// ResetClassHandler handles the ResetClassCommand.
type ResetClassHandler struct {
	repo       student.Repository
	replicator student.Replicator
	publisher  shared.EventPublisher
	pick       student.Picker
}

// NewResetClassHandler creates a new ResetClassHandler. The picker selects
// each student's replacement icon from the reset pool.
func NewResetClassHandler(
	repo student.Repository,
	replicator student.Replicator,
	publisher shared.EventPublisher,
	pick student.Picker,
) *ResetClassHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &ResetClassHandler{repo: repo, replicator: replicator, publisher: publisher, pick: pick}
}

// Handle executes the reset command. The whole class is rewritten in a
// single snapshot replace, so a reset is all-or-nothing on the
// authoritative list.
func (h *ResetClassHandler) Handle(ctx context.Context, cmd ResetClassCommand) (*ResetClassResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	students, err := h.repo.List(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("reset_class: %w", err)
	}

	for i := range students {
		icon := student.ResetIconPool[h.pick(len(student.ResetIconPool))]
		students[i].ResetProgress(icon)
	}

	if err := h.repo.Replace(ctx, cmd.ClassID, students); err != nil {
		return nil, fmt.Errorf("reset_class: %w", err)
	}

	replErrs := h.replicator.PropagateList(ctx, cmd.ClassID, students)

	_ = h.publisher.Publish(shared.NewClassResetEvent(cmd.ClassID, len(students)))

	return &ResetClassResult{
		ResetCount:        len(students),
		ReplicationErrors: replErrs,
	}, nil
}

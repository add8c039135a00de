package command

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentCommand removes one student from a class.
type DeleteStudentCommand struct {
	// ClassID identifies the class.
	ClassID string

	// StudentID identifies the student to remove.
	StudentID string
}

// Validate validates the command.
func (c DeleteStudentCommand) Validate() error {
	if c.ClassID == "" {
		return fmt.Errorf("delete_student: class_id is required")
	}
	if c.StudentID == "" {
		return fmt.Errorf("delete_student: student_id is required")
	}
	return nil
}

// DeleteStudentResult contains the result of the removal.
type DeleteStudentResult struct {
	// Removed is false when the ID was not present; that case is a no-op,
	// not an error.
	Removed bool

	// Total is the class size after the removal.
	Total int

	// ReplicationErrors lists derived-view writes that failed. The
	// authoritative removal has already been committed when these occur.
	ReplicationErrors []string
}

// DeleteStudentHandler handles the DeleteStudentCommand.
type DeleteStudentHandler struct {
	repo       student.Repository
	replicator student.Replicator
	publisher  shared.EventPublisher
}

// NewDeleteStudentHandler creates a new DeleteStudentHandler.
func NewDeleteStudentHandler(
	repo student.Repository,
	replicator student.Replicator,
	publisher shared.EventPublisher,
) *DeleteStudentHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &DeleteStudentHandler{repo: repo, replicator: replicator, publisher: publisher}
}

// Handle executes the delete student command. Remaining students keep their
// numbers: deletion leaves a gap in the sequence.
func (h *DeleteStudentHandler) Handle(ctx context.Context, cmd DeleteStudentCommand) (*DeleteStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	students, err := h.repo.List(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("delete_student: %w", err)
	}

	filtered := make([]student.Student, 0, len(students))
	removed := false
	for i := range students {
		if students[i].ID == cmd.StudentID {
			removed = true
			continue
		}
		filtered = append(filtered, students[i])
	}

	if !removed {
		return &DeleteStudentResult{Removed: false, Total: len(students)}, nil
	}

	if err := h.repo.Replace(ctx, cmd.ClassID, filtered); err != nil {
		return nil, fmt.Errorf("delete_student: %w", err)
	}

	replErrs := h.replicator.PropagateList(ctx, cmd.ClassID, filtered)

	_ = h.publisher.Publish(shared.NewStudentDeletedEvent(cmd.ClassID, cmd.StudentID))

	return &DeleteStudentResult{
		Removed:           true,
		Total:             len(filtered),
		ReplicationErrors: replErrs,
	}, nil
}

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// Edits one record in place. Identity fields (ID, Number) never change;
// the edit is re-propagated into the derived aggregates like a delete.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand edits a single student record.
type UpdateStudentCommand struct {
	// ClassID identifies the class.
	ClassID string

	// StudentID identifies the student to edit.
	StudentID string

	// Name is the new name. Empty keeps the current one.
	Name string

	// Points is the new point balance. Nil keeps the current one.
	Points *int
}

// Validate validates the command.
func (c UpdateStudentCommand) Validate() error {
	if c.ClassID == "" {
		return fmt.Errorf("update_student: class_id is required")
	}
	if c.StudentID == "" {
		return fmt.Errorf("update_student: student_id is required")
	}
	if strings.TrimSpace(c.Name) == "" && c.Points == nil {
		return fmt.Errorf("update_student: nothing to change")
	}
	if c.Points != nil && *c.Points < 0 {
		return fmt.Errorf("update_student: points must be non-negative")
	}
	return nil
}

// UpdateStudentResult contains the record after the edit.
type UpdateStudentResult struct {
	Student student.Student

	// ReplicationErrors lists derived-view writes that failed. The
	// authoritative edit has already been committed when these occur.
	ReplicationErrors []string
}

// UpdateStudentHandler handles the UpdateStudentCommand.
type UpdateStudentHandler struct {
	repo       student.Repository
	replicator student.Replicator
	publisher  shared.EventPublisher
}

// NewUpdateStudentHandler creates a new UpdateStudentHandler.
func NewUpdateStudentHandler(
	repo student.Repository,
	replicator student.Replicator,
	publisher shared.EventPublisher,
) *UpdateStudentHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &UpdateStudentHandler{repo: repo, replicator: replicator, publisher: publisher}
}

// Handle executes the update student command.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.repo.Get(ctx, cmd.ClassID, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(cmd.Name); name != "" {
		s.Name = name
	}
	if cmd.Points != nil {
		s.Points = student.Points(*cmd.Points)
	}

	if err := h.repo.Save(ctx, cmd.ClassID, *s); err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}

	students, err := h.repo.List(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}
	replErrs := h.replicator.PropagateList(ctx, cmd.ClassID, students)

	return &UpdateStudentResult{
		Student:           *s,
		ReplicationErrors: replErrs,
	}, nil
}

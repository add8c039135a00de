// Package command contains write operations (CQRS - Commands).
// Commands mutate the authoritative class records and propagate the result
// into the derived class aggregates.
package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENTS COMMAND
// Bulk-appends students parsed from one free-form input string.
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentsCommand contains the data needed to append students to a class.
type AddStudentsCommand struct {
	// ClassID identifies the class to append to.
	ClassID string

	// RawNames is the free-form input: names separated by commas
	// and/or whitespace.
	RawNames string
}

// Validate validates the command.
func (c AddStudentsCommand) Validate() error {
	if c.ClassID == "" {
		return fmt.Errorf("add_students: class_id is required")
	}
	if len(student.ParseNames(c.RawNames)) == 0 {
		return student.ErrEmptyNameList
	}
	return nil
}

// AddStudentsResult contains the result of the append.
type AddStudentsResult struct {
	// Added contains only the newly created students, in input order.
	Added []student.Student

	// Total is the class size after the append.
	Total int
}

// AddStudentsHandler handles the AddStudentsCommand.
type AddStudentsHandler struct {
	repo      student.Repository
	publisher shared.EventPublisher
}

// NewAddStudentsHandler creates a new AddStudentsHandler.
func NewAddStudentsHandler(repo student.Repository, publisher shared.EventPublisher) *AddStudentsHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &AddStudentsHandler{repo: repo, publisher: publisher}
}

// Handle executes the add students command. An input that parses to zero
// names is declined before any read or write.
func (h *AddStudentsHandler) Handle(ctx context.Context, cmd AddStudentsCommand) (*AddStudentsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	names := student.ParseNames(cmd.RawNames)

	existing, err := h.repo.List(ctx, cmd.ClassID)
	if err != nil {
		return nil, fmt.Errorf("add_students: %w", err)
	}

	// Class numbers continue from the current size; deletions never
	// renumber, so gaps in the sequence are expected.
	added := make([]student.Student, 0, len(names))
	next := len(existing) + 1

	for _, name := range names {
		s, err := student.NewStudent(uuid.NewString(), next, name)
		if err != nil {
			return nil, fmt.Errorf("add_students: %w", err)
		}
		added = append(added, *s)
		next++
	}

	updated := append(existing, added...)
	if err := h.repo.Replace(ctx, cmd.ClassID, updated); err != nil {
		return nil, fmt.Errorf("add_students: %w", err)
	}

	_ = h.publisher.Publish(shared.NewStudentsAddedEvent(cmd.ClassID, names))

	return &AddStudentsResult{
		Added: added,
		Total: len(updated),
	}, nil
}

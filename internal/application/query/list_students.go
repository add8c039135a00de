// Package query contains read operations (CQRS - Queries).
// Queries never mutate domain state, with one deliberate exception: the
// student list view fills in missing honorifics on first display and
// writes the result back.
package query

import (
	"context"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery returns the display-ready student list of a class.
type ListStudentsQuery struct {
	// ClassID identifies the class.
	ClassID string
}

// Validate validates the query.
func (q ListStudentsQuery) Validate() error {
	if q.ClassID == "" {
		return fmt.Errorf("list_students: class_id is required")
	}
	return nil
}

// ListStudentsResult contains the student list.
type ListStudentsResult struct {
	Students []student.Student

	// HonorificsAssigned is the number of students that received a title
	// during this view.
	HonorificsAssigned int
}

// ListStudentsHandler handles the ListStudentsQuery.
type ListStudentsHandler struct {
	repo student.Repository
	pick student.Picker
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(repo student.Repository, pick student.Picker) *ListStudentsHandler {
	return &ListStudentsHandler{repo: repo, pick: pick}
}

// Handle executes the query. Students without an honorific get a random one
// from the pool; when any were assigned the list is written back so the
// titles stick. A nil picker disables the assignment entirely.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrValidation, err.Error(), err)
	}

	students, err := h.repo.List(ctx, q.ClassID)
	if err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrStoreUnavailable, "failed to load students", err)
	}

	assigned := 0
	if h.pick != nil {
		for i := range students {
			if students[i].AssignHonorific(h.pick) {
				assigned++
			}
		}
	}

	if assigned > 0 {
		if err := h.repo.Replace(ctx, q.ClassID, students); err != nil {
			return nil, fmt.Errorf("list_students: %w", err)
		}
	}

	return &ListStudentsResult{
		Students:           students,
		HonorificsAssigned: assigned,
	}, nil
}

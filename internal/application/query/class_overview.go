package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/class"
	"github.com/ol2009/classquest-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASS OVERVIEW QUERIES
// Read the derived class aggregates. Student counts are computed by
// branching on the roster shape, never by assuming one.
// ══════════════════════════════════════════════════════════════════════════════

// AggregateReader loads the derived class aggregates.
type AggregateReader interface {
	// LoadRoster returns the all-classes summary, empty when absent.
	LoadRoster(ctx context.Context) (class.List, error)

	// LoadDetail returns one class card.
	// Returns class.ErrClassNotFound when absent.
	LoadDetail(ctx context.Context, classID string) (*class.Info, error)
}

// ClassSummary is one row of the overview.
type ClassSummary struct {
	ID           string
	Name         string
	Grade        string
	StudentCount int
}

// ClassOverviewQuery lists all known classes.
type ClassOverviewQuery struct{}

// ClassOverviewResult contains one summary row per class.
type ClassOverviewResult struct {
	Classes []ClassSummary
}

// ClassOverviewHandler handles the ClassOverviewQuery.
type ClassOverviewHandler struct {
	reader AggregateReader
}

// NewClassOverviewHandler creates a new ClassOverviewHandler.
func NewClassOverviewHandler(reader AggregateReader) *ClassOverviewHandler {
	return &ClassOverviewHandler{reader: reader}
}

// Handle executes the overview query.
func (h *ClassOverviewHandler) Handle(ctx context.Context, _ ClassOverviewQuery) (*ClassOverviewResult, error) {
	roster, err := h.reader.LoadRoster(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ClassOverview", shared.ErrStoreUnavailable, "failed to load roster", err)
	}

	classes := make([]ClassSummary, 0, len(roster))
	for i := range roster {
		classes = append(classes, ClassSummary{
			ID:           roster[i].ID,
			Name:         roster[i].Name,
			Grade:        roster[i].Grade,
			StudentCount: roster[i].Students.Len(),
		})
	}

	return &ClassOverviewResult{Classes: classes}, nil
}

// ClassDetailQuery loads one class card.
type ClassDetailQuery struct {
	ClassID string
}

// Validate validates the query.
func (q ClassDetailQuery) Validate() error {
	if q.ClassID == "" {
		return fmt.Errorf("class_detail: class_id is required")
	}
	return nil
}

// ClassDetailResult contains the class card.
type ClassDetailResult struct {
	Class class.Info
}

// ClassDetailHandler handles the ClassDetailQuery.
type ClassDetailHandler struct {
	reader AggregateReader
}

// NewClassDetailHandler creates a new ClassDetailHandler.
func NewClassDetailHandler(reader AggregateReader) *ClassDetailHandler {
	return &ClassDetailHandler{reader: reader}
}

// Handle executes the detail query.
func (h *ClassDetailHandler) Handle(ctx context.Context, q ClassDetailQuery) (*ClassDetailResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "ClassDetail", shared.ErrValidation, err.Error(), err)
	}

	detail, err := h.reader.LoadDetail(ctx, q.ClassID)
	if err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return nil, shared.WrapError("query", "ClassDetail", shared.ErrNotFound, "class not found", err)
		}
		return nil, shared.WrapError("query", "ClassDetail", shared.ErrStoreUnavailable, "failed to load class", err)
	}

	return &ClassDetailResult{Class: *detail}, nil
}

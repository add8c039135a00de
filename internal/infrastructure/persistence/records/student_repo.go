// Package records implements the domain repositories on top of the
// record-store adapter. Every collection is one JSON snapshot under one key;
// mutations are plain read-modify-write cycles over those snapshots.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/student"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
	"github.com/ol2009/classquest-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository over the record store.
// It owns the authoritative per-class student list.
type StudentRepository struct {
	store recordstore.Store
	log   *logger.Logger
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(store recordstore.Store, log *logger.Logger) *StudentRepository {
	if log == nil {
		log = logger.Default()
	}
	return &StudentRepository{
		store: store,
		log:   log.With(logger.Component("student_repository")),
	}
}

// List returns the authoritative student list of a class.
// An absent snapshot means an empty class. A snapshot that fails to decode
// also degrades to an empty list: malformed data is logged, never surfaced
// as a caller fault.
func (r *StudentRepository) List(ctx context.Context, classID string) ([]student.Student, error) {
	key := recordstore.StudentsKey(classID)

	var students []student.Student
	err := r.store.Get(ctx, key, &students)
	switch {
	case err == nil:
		return students, nil
	case errors.Is(err, recordstore.ErrNotFound):
		return []student.Student{}, nil
	case errors.Is(err, recordstore.ErrSerialization):
		r.log.Warn("malformed student list snapshot, falling back to empty",
			logger.ClassID(classID), logger.RecordKey(key), logger.Err(err))
		return []student.Student{}, nil
	default:
		return nil, fmt.Errorf("list students: %w", err)
	}
}

// Get returns one student from the authoritative list.
func (r *StudentRepository) Get(ctx context.Context, classID, studentID string) (*student.Student, error) {
	students, err := r.List(ctx, classID)
	if err != nil {
		return nil, err
	}

	for i := range students {
		if students[i].ID == studentID {
			return students[i].Clone(), nil
		}
	}

	return nil, student.ErrStudentNotFound
}

// Save replaces one record in the authoritative list, matched by ID.
func (r *StudentRepository) Save(ctx context.Context, classID string, s student.Student) error {
	students, err := r.List(ctx, classID)
	if err != nil {
		return err
	}

	for i := range students {
		if students[i].ID == s.ID {
			students[i] = s
			return r.Replace(ctx, classID, students)
		}
	}

	return student.ErrStudentNotFound
}

// Replace overwrites the authoritative list of a class wholesale.
func (r *StudentRepository) Replace(ctx context.Context, classID string, students []student.Student) error {
	if students == nil {
		students = []student.Student{}
	}

	key := recordstore.StudentsKey(classID)
	if err := r.store.Set(ctx, key, students); err != nil {
		return fmt.Errorf("replace students: %w", err)
	}

	return nil
}

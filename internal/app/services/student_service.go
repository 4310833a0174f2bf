package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danuarta/siswalink/internal/app/identity"
	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

// StudentService defines the interface for administrative student operations
type StudentService interface {
	GetStudentByID(ctx context.Context, id string) (*models.Student, error)
	ListOrphans(ctx context.Context) ([]*models.Student, error)

	// LinkStudent attaches a record to an account on behalf of an operator,
	// going through the same conditional write as automatic resolution.
	LinkStudent(ctx context.Context, studentID, accountID string) (*models.Student, error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	students identity.StudentStore
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students identity.StudentStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		students: students,
		logger:   logger,
	}
}

// GetStudentByID retrieves a student record
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding student: %w", err)
	}
	if student == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Student record not found")
	}
	return student, nil
}

// ListOrphans returns every record without a linked account
func (s *studentServiceImpl) ListOrphans(ctx context.Context) ([]*models.Student, error) {
	orphans, err := s.students.ListUnlinked(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing orphan students: %w", err)
	}
	return orphans, nil
}

// LinkStudent performs a manual link for the admin review queue
func (s *studentServiceImpl) LinkStudent(ctx context.Context, studentID, accountID string) (*models.Student, error) {
	if accountID == "" {
		return nil, apperrors.ErrEmptyAccountID
	}

	if _, err := s.GetStudentByID(ctx, studentID); err != nil {
		return nil, err
	}

	// An account already holding a different record is refused; one account
	// maps to at most one student.
	existing, err := s.students.FindByLinkedAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing link: %w", err)
	}
	if existing != nil && existing.ID != studentID {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyLinked,
			"Account already holds a different student record").
			WithDetails(map[string]interface{}{"accountId": accountID})
	}

	linked, err := s.students.Link(ctx, studentID, accountID)
	if err != nil {
		return nil, fmt.Errorf("error linking student: %w", err)
	}
	if !linked {
		// The record is taken by someone else; the existing link is never
		// overwritten.
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyLinked,
			"Student record is already linked to another account").
			WithDetails(map[string]interface{}{"studentId": studentID})
	}

	s.logger.Info().
		Str("studentId", studentID).
		Str("accountId", accountID).
		Msg("Student record linked manually")

	return s.GetStudentByID(ctx, studentID)
}

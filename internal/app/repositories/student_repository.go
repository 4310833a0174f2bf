package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
	"github.com/danuarta/siswalink/internal/pkg/dberrors"
	"github.com/danuarta/siswalink/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "nis", "full_name", "gender", "class_name", "status",
	"phone", "linked_account_id", "created_at", "updated_at",
}

// StudentRepository handles student database operations. It implements
// identity.StudentStore on top of Postgres.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.NIS, &s.FullName, &s.Gender, &s.ClassName, &s.Status,
		&s.Phone, &s.LinkedAccountID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) getOne(ctx context.Context, pred interface{}) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student lookup SQL")
		return nil, fmt.Errorf("failed to build student lookup query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByID retrieves a student by primary key
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// FindByLinkedAccount retrieves the student linked to the given account
func (r *StudentRepository) FindByLinkedAccount(ctx context.Context, accountID string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"linked_account_id": accountID})
}

// FindByNIS retrieves the student with the given enrollment number
func (r *StudentRepository) FindByNIS(ctx context.Context, nis string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"nis": nis})
}

func (r *StudentRepository) queryMany(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student list SQL")
		return nil, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing student list query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// likeEscaper quotes LIKE metacharacters so a fragment is matched literally
// inside the pattern. Profile names can carry underscores (email local
// parts), which LIKE would otherwise treat as single-character wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikeFragment(fragment string) string {
	return likeEscaper.Replace(fragment)
}

// FindUnlinkedByName returns unlinked students whose full name contains the
// fragment, case-insensitively. Containment is literal, not pattern-based.
func (r *StudentRepository) FindUnlinkedByName(ctx context.Context, fragment string) ([]*models.Student, error) {
	builder := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"linked_account_id": nil}).
		Where(squirrel.ILike{"full_name": "%" + escapeLikeFragment(fragment) + "%"}).
		OrderBy("nis")
	return r.queryMany(ctx, builder)
}

// ListUnlinked returns every student without a linked account
func (r *StudentRepository) ListUnlinked(ctx context.Context) ([]*models.Student, error) {
	builder := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"linked_account_id": nil}).
		OrderBy("nis")
	return r.queryMany(ctx, builder)
}

// Insert creates a new student record
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(
			student.ID, student.NIS, student.FullName, student.Gender,
			student.ClassName, student.Status, student.Phone,
			student.LinkedAccountID, student.CreatedAt, student.UpdatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_nis_key") {
			logger.Warn().Str("nis", student.NIS).Msg("Attempted to create student with duplicate NIS")
			return apperrors.ErrNISExists
		}
		logger.Error().Err(err).Str("studentId", student.ID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Str("studentId", student.ID).Str("nis", student.NIS).Msg("Student created successfully")
	return nil
}

// Link sets linked_account_id only where it is currently NULL. The WHERE
// clause is the conflict guard: a record taken by another account is left
// untouched and Link reports false.
func (r *StudentRepository) Link(ctx context.Context, studentID, accountID string) (bool, error) {
	sql, args, err := r.sb.Update("students").
		Set("linked_account_id", accountID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": studentID}).
		Where(squirrel.Eq{"linked_account_id": nil}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building link student SQL")
		return false, fmt.Errorf("failed to build link student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			// The account already holds another record; partial unique
			// index on linked_account_id rejected the second link.
			logger.Warn().Str("accountId", accountID).Str("studentId", studentID).
				Msg("Account already linked to a different student record")
			return false, nil
		}
		logger.Error().Err(err).Str("studentId", studentID).Msg("Error executing link student query")
		return false, fmt.Errorf("error linking student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the record is gone or someone linked it first. Re-read to
		// distinguish a same-account retry from a genuine conflict.
		current, err := r.GetByID(ctx, studentID)
		if err != nil {
			return false, err
		}
		if current == nil {
			return false, apperrors.ErrStudentNotFound
		}
		return current.IsLinkedTo(accountID), nil
	}

	return true, nil
}

package identity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danuarta/siswalink/internal/app/models"
)

// Linker performs the link write-back. It is the only place the resolver
// mutates student records. The underlying store write is conditional on the
// record being unlinked, so a lost race surfaces as a conflict instead of an
// overwrite.
type Linker struct {
	students StudentStore
	logger   zerolog.Logger
}

// NewLinker creates a new Linker
func NewLinker(students StudentStore, logger zerolog.Logger) *Linker {
	return &Linker{students: students, logger: logger}
}

// Link attaches the student record to the account. It returns false when the
// record was already taken by another account, in which case nothing was
// written.
func (l *Linker) Link(ctx context.Context, student *models.Student, accountID string) (bool, error) {
	if student.IsLinkedTo(accountID) {
		return true, nil
	}

	linked, err := l.students.Link(ctx, student.ID, accountID)
	if err != nil {
		return false, fmt.Errorf("error linking student %s: %w", student.ID, err)
	}

	if !linked {
		l.logger.Warn().
			Str("accountId", accountID).
			Str("studentId", student.ID).
			Msg("Link lost to a concurrent writer, record already taken")
		return false, nil
	}

	student.LinkedAccountID = &accountID
	l.logger.Info().
		Str("accountId", accountID).
		Str("studentId", student.ID).
		Str("nis", student.NIS).
		Msg("Student record linked to account")
	return true, nil
}

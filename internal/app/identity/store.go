package identity

import (
	"context"

	"github.com/danuarta/siswalink/internal/app/models"
)

// StudentStore is the persistence surface the resolver needs for student
// records. Lookup methods return (nil, nil) when nothing matches; errors are
// reserved for store faults, which the resolver propagates without retrying.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	FindByLinkedAccount(ctx context.Context, accountID string) (*models.Student, error)
	FindByNIS(ctx context.Context, nis string) (*models.Student, error)

	// FindUnlinkedByName returns unlinked records whose full name contains
	// the given fragment, case-insensitively.
	FindUnlinkedByName(ctx context.Context, fragment string) ([]*models.Student, error)
	ListUnlinked(ctx context.Context) ([]*models.Student, error)

	Insert(ctx context.Context, student *models.Student) error

	// Link sets linked_account_id only if it is currently unset. It reports
	// whether the link was taken; false means another account holds it and
	// nothing was written.
	Link(ctx context.Context, studentID, accountID string) (bool, error)
}

// ProfileStore is the persistence surface for per-account profiles.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// CreateIfAbsent inserts the profile unless one already exists for the
	// same id, and returns the stored row either way. Implementations must
	// not race-create duplicates.
	CreateIfAbsent(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

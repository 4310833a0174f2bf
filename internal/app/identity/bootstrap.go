package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/validation"
)

// displayName derives a profile display name from what the account carries.
// With no email either, the opaque account id is all we have.
func displayName(account Account) string {
	if account.Email != "" {
		if at := strings.Index(account.Email, "@"); at > 0 {
			return account.Email[:at]
		}
		return account.Email
	}
	return account.ID
}

// newDefaultProfile builds the profile inserted when an account shows up
// without one. The provider's role claim wins; without one the role
// defaults to the least privileged role.
func newDefaultProfile(account Account) *models.Profile {
	role := models.RoleType(account.Role)
	if role == "" {
		role = models.DefaultRole
	}
	now := time.Now()
	return &models.Profile{
		ID:        account.ID,
		FullName:  displayName(account),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// generatePlaceholderNIS returns a token for bootstrap-created records. The
// TMP- prefix and the non-numeric suffix keep placeholders distinguishable
// from school-issued numbers, and the random suffix keeps two bootstraps in
// the same second from colliding.
func generatePlaceholderNIS() string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("%s%d-%s", validation.PlaceholderNISPrefix, time.Now().Unix(), suffix)
}

// bootstrapStudent creates and links a brand new student record for a
// student-role account that matched nothing. Last resort of the pipeline.
func (r *Resolver) bootstrapStudent(ctx context.Context, account Account, profile *models.Profile) (*models.Student, error) {
	accountID := account.ID
	now := time.Now()

	student := &models.Student{
		ID:              uuid.New().String(),
		NIS:             generatePlaceholderNIS(),
		FullName:        profile.FullName,
		Status:          models.StatusActive,
		LinkedAccountID: &accountID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := r.students.Insert(ctx, student); err != nil {
		return nil, fmt.Errorf("error bootstrapping student record: %w", err)
	}

	r.logger.Info().
		Str("accountId", account.ID).
		Str("studentId", student.ID).
		Str("placeholderNis", student.NIS).
		Msg("Bootstrapped new student record for unmatched account")

	return student, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danuarta/siswalink/internal/app/identity"
	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

// IdentityService defines the interface for account resolution operations
type IdentityService interface {
	// Resolve links the account to its student record, or reports what
	// would link when dryRun is set.
	Resolve(ctx context.Context, account identity.Account, dryRun bool) (*identity.Resolution, error)

	// Profile returns the stored profile for the account, without creating
	// one.
	Profile(ctx context.Context, accountID string) (*models.Profile, error)
}

// identityServiceImpl implements IdentityService
type identityServiceImpl struct {
	resolver       *identity.Resolver
	profiles       identity.ProfileStore
	allowBootstrap bool
	logger         zerolog.Logger
}

// NewIdentityService creates a new IdentityService over the given stores.
// allowBootstrap is the deployment-level switch for last-resort record
// creation; per-call options can only narrow it, never widen it.
func NewIdentityService(
	students identity.StudentStore,
	profiles identity.ProfileStore,
	allowBootstrap bool,
	logger zerolog.Logger,
) IdentityService {
	return &identityServiceImpl{
		resolver:       identity.NewResolver(students, profiles, logger),
		profiles:       profiles,
		allowBootstrap: allowBootstrap,
		logger:         logger,
	}
}

// Resolve runs the strategy pipeline for the account
func (s *identityServiceImpl) Resolve(ctx context.Context, account identity.Account, dryRun bool) (*identity.Resolution, error) {
	opts := identity.Options{
		PersistLinks:   !dryRun,
		AllowBootstrap: s.allowBootstrap,
	}

	res, err := s.resolver.Resolve(ctx, account, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("accountId", account.ID).
		Str("studentId", res.Student.ID).
		Str("strategy", res.Strategy).
		Bool("linked", res.Linked).
		Msg("Account resolved")

	return res, nil
}

// Profile retrieves the account's profile
func (s *identityServiceImpl) Profile(ctx context.Context, accountID string) (*models.Profile, error) {
	if accountID == "" {
		return nil, apperrors.ErrEmptyAccountID
	}

	profile, err := s.profiles.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrProfileNotFound,
			"No profile exists for this account yet")
	}
	return profile, nil
}

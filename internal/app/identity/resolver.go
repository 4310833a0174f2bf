// Package identity resolves which student record an authenticated account
// represents. Matching strategies run in a fixed order, first success wins,
// and the only mutation is the conditional link write-back, so resolving an
// already linked account is a single read.
package identity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

// Resolution is the successful outcome of a resolve call.
type Resolution struct {
	Student *models.Student
	// Strategy names the pipeline step that produced the match, or
	// "bootstrap" for records created on the spot.
	Strategy string
	// Linked is true when this call performed the linking write.
	Linked bool
}

// Resolver orchestrates the strategy pipeline. It holds no state across
// calls; every resolution is fresh reads against the injected stores.
type Resolver struct {
	students StudentStore
	profiles ProfileStore
	linker   *Linker
	pipeline []Strategy
	logger   zerolog.Logger
}

// NewResolver creates a new Resolver over the given stores.
func NewResolver(students StudentStore, profiles ProfileStore, logger zerolog.Logger) *Resolver {
	return &Resolver{
		students: students,
		profiles: profiles,
		linker:   NewLinker(students, logger),
		// Order is part of the contract: NIS evidence outranks name
		// similarity, and the direct link pre-empts everything.
		pipeline: []Strategy{
			&directLinkStrategy{students: students},
			&nisMatchStrategy{students: students, logger: logger},
			&nameMatchStrategy{students: students, logger: logger},
			&singleOrphanStrategy{students: students, logger: logger},
		},
		logger: logger,
	}
}

// Resolve returns the one student record representing the account, linking
// it if needed. When every strategy fails and bootstrap does not apply it
// returns apperrors.ErrStudentNotLinked, or apperrors.ErrBootstrapNotAllowed
// when only the caller's non-student role stood in the way; any other error
// is a store fault, propagated as-is (retry policy belongs to the caller).
func (r *Resolver) Resolve(ctx context.Context, account Account, opts Options) (*Resolution, error) {
	if account.ID == "" {
		return nil, apperrors.ErrEmptyAccountID
	}

	profile, err := r.loadProfile(ctx, account, opts)
	if err != nil {
		return nil, err
	}

	for _, strategy := range r.pipeline {
		match, err := strategy.Attempt(ctx, account, profile)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", strategy.Name(), err)
		}

		if match.Outcome != OutcomeMatched {
			continue
		}

		if match.Student.IsLinkedTo(account.ID) {
			return &Resolution{Student: match.Student, Strategy: strategy.Name()}, nil
		}

		if !opts.PersistLinks {
			return &Resolution{Student: match.Student, Strategy: strategy.Name()}, nil
		}

		linked, err := r.linker.Link(ctx, match.Student, account.ID)
		if err != nil {
			return nil, err
		}
		if !linked {
			// Lost the race; the next strategy or bootstrap decides.
			continue
		}

		return &Resolution{Student: match.Student, Strategy: strategy.Name(), Linked: true}, nil
	}

	if opts.PersistLinks && opts.AllowBootstrap && profile != nil {
		if profile.Role != models.RoleStudent {
			// Staff accounts never get placeholder records; they are
			// linked manually or not at all.
			return nil, apperrors.ErrBootstrapNotAllowed
		}
		student, err := r.bootstrapStudent(ctx, account, profile)
		if err != nil {
			return nil, err
		}
		return &Resolution{Student: student, Strategy: "bootstrap", Linked: true}, nil
	}

	return nil, apperrors.ErrStudentNotLinked
}

// loadProfile fetches the account's profile.  Under PersistLinks it is
// created lazily (get-or-create keyed on the account id); otherwise a
// missing profile is synthesized in memory so the name strategy still has
// something to work with, without writing anything.
func (r *Resolver) loadProfile(ctx context.Context, account Account, opts Options) (*models.Profile, error) {
	profile, err := r.profiles.GetByID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	if !opts.PersistLinks {
		return newDefaultProfile(account), nil
	}

	profile, err = r.profiles.CreateIfAbsent(ctx, newDefaultProfile(account))
	if err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	r.logger.Info().
		Str("accountId", account.ID).
		Str("fullName", profile.FullName).
		Msg("Profile created lazily for first-seen account")

	return profile, nil
}

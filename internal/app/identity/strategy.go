package identity

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danuarta/siswalink/internal/app/models"
)

// Outcome tags the result of a single matching attempt.
type Outcome int

const (
	// OutcomeNotApplicable means the strategy had nothing to say; the
	// pipeline moves on.
	OutcomeNotApplicable Outcome = iota
	// OutcomeMatched carries exactly one candidate record.
	OutcomeMatched
	// OutcomeAmbiguous means more than one candidate matched; auto-linking
	// is unsafe and the pipeline moves on.
	OutcomeAmbiguous
	// OutcomeConflict means the candidate is already linked to a different
	// account. The existing link is left alone and the pipeline moves on.
	OutcomeConflict
)

// Match is the tagged result of a Strategy attempt.
type Match struct {
	Outcome    Outcome
	Student    *models.Student
	Candidates int
}

// Strategy is one step of the resolution pipeline. Strategies are pure
// lookups over the store; the single mutation point is the Linker.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, account Account, profile *models.Profile) (Match, error)
}

// directLinkStrategy finds the record already linked to the account. Once an
// account is linked this short-circuits the whole pipeline with one read,
// which is what makes resolution idempotent.
type directLinkStrategy struct {
	students StudentStore
}

func (s *directLinkStrategy) Name() string { return "direct-link" }

func (s *directLinkStrategy) Attempt(ctx context.Context, account Account, _ *models.Profile) (Match, error) {
	student, err := s.students.FindByLinkedAccount(ctx, account.ID)
	if err != nil {
		return Match{}, err
	}
	if student == nil {
		return Match{Outcome: OutcomeNotApplicable}, nil
	}
	return Match{Outcome: OutcomeMatched, Student: student, Candidates: 1}, nil
}

// nisMatchStrategy looks the record up by the profile's enrollment number.
// NIS is the natural key shared by profiles and student records, so a hit
// here is authoritative unless the record already belongs to someone else.
type nisMatchStrategy struct {
	students StudentStore
	logger   zerolog.Logger
}

func (s *nisMatchStrategy) Name() string { return "nis-match" }

func (s *nisMatchStrategy) Attempt(ctx context.Context, account Account, profile *models.Profile) (Match, error) {
	if profile == nil || !profile.HasNIS() {
		return Match{Outcome: OutcomeNotApplicable}, nil
	}

	student, err := s.students.FindByNIS(ctx, *profile.NIS)
	if err != nil {
		return Match{}, err
	}
	if student == nil {
		return Match{Outcome: OutcomeNotApplicable}, nil
	}

	if student.IsLinked() && !student.IsLinkedTo(account.ID) {
		s.logger.Warn().
			Str("accountId", account.ID).
			Str("studentId", student.ID).
			Str("nis", student.NIS).
			Str("linkedTo", *student.LinkedAccountID).
			Msg("NIS match is linked to a different account, flagging for manual review")
		return Match{Outcome: OutcomeConflict, Student: student, Candidates: 1}, nil
	}

	return Match{Outcome: OutcomeMatched, Student: student, Candidates: 1}, nil
}

// nameMatchStrategy falls back to a case-insensitive substring match of the
// profile name over unlinked records. It links only when the candidate is
// unique; two half-matching homonyms are worse than no link at all.
type nameMatchStrategy struct {
	students StudentStore
	logger   zerolog.Logger
}

func (s *nameMatchStrategy) Name() string { return "name-match" }

func (s *nameMatchStrategy) Attempt(ctx context.Context, account Account, profile *models.Profile) (Match, error) {
	if profile == nil {
		return Match{Outcome: OutcomeNotApplicable}, nil
	}

	name := strings.TrimSpace(profile.FullName)
	if name == "" {
		return Match{Outcome: OutcomeNotApplicable}, nil
	}

	candidates, err := s.students.FindUnlinkedByName(ctx, name)
	if err != nil {
		return Match{}, err
	}

	switch len(candidates) {
	case 0:
		return Match{Outcome: OutcomeNotApplicable}, nil
	case 1:
		return Match{Outcome: OutcomeMatched, Student: candidates[0], Candidates: 1}, nil
	default:
		s.logger.Warn().
			Str("accountId", account.ID).
			Str("profileName", name).
			Int("candidates", len(candidates)).
			Msg("Name match is ambiguous, not auto-linking")
		return Match{Outcome: OutcomeAmbiguous, Candidates: len(candidates)}, nil
	}
}

// singleOrphanStrategy observes the case where exactly one unlinked record
// remains. Population size is not identity evidence, so it never links; it
// only logs the observation so an operator can link manually.
type singleOrphanStrategy struct {
	students StudentStore
	logger   zerolog.Logger
}

func (s *singleOrphanStrategy) Name() string { return "single-orphan" }

func (s *singleOrphanStrategy) Attempt(ctx context.Context, account Account, _ *models.Profile) (Match, error) {
	orphans, err := s.students.ListUnlinked(ctx)
	if err != nil {
		return Match{}, err
	}

	if len(orphans) == 1 {
		s.logger.Info().
			Str("accountId", account.ID).
			Str("studentId", orphans[0].ID).
			Str("nis", orphans[0].NIS).
			Msg("Exactly one orphan record remains; leaving it for manual linking")
	}

	return Match{Outcome: OutcomeNotApplicable, Candidates: len(orphans)}, nil
}

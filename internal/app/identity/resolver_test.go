package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danuarta/siswalink/internal/app/identity"
	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/app/repositories/inmem"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
	"github.com/danuarta/siswalink/internal/pkg/validation"
)

func setup(t *testing.T) (*identity.Resolver, *inmem.DB) {
	t.Helper()
	db := inmem.Open()
	r := identity.NewResolver(
		inmem.NewStudentRepository(db),
		inmem.NewProfileRepository(db),
		zerolog.Nop(),
	)
	return r, db
}

func seedStudent(t *testing.T, db *inmem.DB, nis, fullName string, linkedTo string) *models.Student {
	t.Helper()
	now := time.Now()
	s := &models.Student{
		ID:        uuid.New().String(),
		NIS:       nis,
		FullName:  fullName,
		Gender:    models.GenderMale,
		ClassName: "XII RPL 1",
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if linkedTo != "" {
		s.LinkedAccountID = &linkedTo
	}
	require.NoError(t, inmem.NewStudentRepository(db).Insert(context.Background(), s))
	return s
}

func seedProfile(t *testing.T, db *inmem.DB, accountID, fullName, nis string, role models.RoleType) *models.Profile {
	t.Helper()
	now := time.Now()
	p := &models.Profile{
		ID:        accountID,
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nis != "" {
		p.NIS = &nis
	}
	stored, err := inmem.NewProfileRepository(db).CreateIfAbsent(context.Background(), p)
	require.NoError(t, err)
	return stored
}

func persist() identity.Options {
	return identity.Options{PersistLinks: true, AllowBootstrap: true}
}

func TestResolveRejectsEmptyAccountID(t *testing.T) {
	r, _ := setup(t)

	_, err := r.Resolve(context.Background(), identity.Account{}, persist())
	assert.ErrorIs(t, err, apperrors.ErrEmptyAccountID)
}

func TestResolveLinksByNIS(t *testing.T) {
	// Account u1 with profile NIS 1001 and an unlinked record s1 holding the
	// same NIS: resolve must return s1 and write the link.
	r, db := setup(t)
	s1 := seedStudent(t, db, "1001", "Budi Santoso", "")
	seedProfile(t, db, "u1", "Budi Santoso", "1001", models.RoleStudent)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1", Email: "budi@example.com"}, persist())
	require.NoError(t, err)

	assert.Equal(t, s1.ID, res.Student.ID)
	assert.Equal(t, "nis-match", res.Strategy)
	assert.True(t, res.Linked)

	stored, err := inmem.NewStudentRepository(db).GetByID(context.Background(), s1.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LinkedAccountID)
	assert.Equal(t, "u1", *stored.LinkedAccountID)
}

func TestResolveIsIdempotent(t *testing.T) {
	r, db := setup(t)
	s1 := seedStudent(t, db, "1001", "Budi Santoso", "")
	seedProfile(t, db, "u1", "Budi Santoso", "1001", models.RoleStudent)

	first, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	require.NoError(t, err)
	require.True(t, first.Linked)

	writesAfterFirst := db.WriteCount()

	for i := 0; i < 5; i++ {
		res, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
		require.NoError(t, err)
		assert.Equal(t, s1.ID, res.Student.ID)
		assert.Equal(t, "direct-link", res.Strategy)
		assert.False(t, res.Linked)
	}

	assert.Equal(t, writesAfterFirst, db.WriteCount(), "repeat resolutions must not write")
}

func TestResolveDirectLinkWinsOverBetterNISMatch(t *testing.T) {
	// Strategy order is contractual: an existing (even stale) direct link
	// short-circuits before the NIS strategy can see a better match.
	r, db := setup(t)
	stale := seedStudent(t, db, "2002", "Siti Rahma", "u1")
	better := seedStudent(t, db, "1001", "Budi Santoso", "")
	seedProfile(t, db, "u1", "Budi Santoso", "1001", models.RoleStudent)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	require.NoError(t, err)

	assert.Equal(t, stale.ID, res.Student.ID)
	assert.Equal(t, "direct-link", res.Strategy)

	untouched, err := inmem.NewStudentRepository(db).GetByID(context.Background(), better.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.LinkedAccountID)
}

func TestResolveNISConflictFallsThrough(t *testing.T) {
	// s1 carries the profile's NIS but belongs to u9: the link must survive
	// and resolution continues down the pipeline, ending in bootstrap.
	r, db := setup(t)
	s1 := seedStudent(t, db, "1001", "Budi Santoso", "u9")
	seedProfile(t, db, "u1", "Budi Hartono", "1001", models.RoleStudent)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	require.NoError(t, err)

	assert.Equal(t, "bootstrap", res.Strategy)
	assert.NotEqual(t, s1.ID, res.Student.ID)

	stored, err := inmem.NewStudentRepository(db).GetByID(context.Background(), s1.ID)
	require.NoError(t, err)
	assert.Equal(t, "u9", *stored.LinkedAccountID)
}

func TestResolveLinksByUniqueNameMatch(t *testing.T) {
	r, db := setup(t)
	s1 := seedStudent(t, db, "1001", "Budi Santoso", "")
	seedStudent(t, db, "1002", "Siti Rahma", "u9")
	seedProfile(t, db, "u1", "budi santoso", "", models.RoleStudent)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	require.NoError(t, err)

	assert.Equal(t, s1.ID, res.Student.ID)
	assert.Equal(t, "name-match", res.Strategy)
	assert.True(t, res.Linked)
}

func TestResolveAmbiguousNameDoesNotLink(t *testing.T) {
	// Two unlinked homonyms: neither may be auto-linked; the student-role
	// account falls through to bootstrap.
	r, db := setup(t)
	a := seedStudent(t, db, "1001", "Budi Santoso", "")
	b := seedStudent(t, db, "1002", "Budi Santoso Putra", "")
	seedProfile(t, db, "u1", "Budi Santoso", "", models.RoleStudent)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", res.Strategy)

	repo := inmem.NewStudentRepository(db)
	for _, id := range []string{a.ID, b.ID} {
		stored, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, stored.LinkedAccountID, "ambiguous candidate must stay unlinked")
	}
}

func TestResolveSingleOrphanIsNotAutoLinked(t *testing.T) {
	// One orphan record and no NIS or name evidence: the orphan stays
	// unlinked and the non-student account gets a terminal error.
	r, db := setup(t)
	orphan := seedStudent(t, db, "1001", "Budi Santoso", "")
	seedProfile(t, db, "u1", "Rina Wijaya", "", models.RoleCounselor)

	_, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	assert.ErrorIs(t, err, apperrors.ErrBootstrapNotAllowed)

	stored, err := inmem.NewStudentRepository(db).GetByID(context.Background(), orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LinkedAccountID)
}

func TestResolveNoDoubleLink(t *testing.T) {
	// Two accounts resolved in either order must never end up on the same
	// record.
	for _, order := range [][]string{{"u1", "u2"}, {"u2", "u1"}} {
		r, db := setup(t)
		seedStudent(t, db, "1001", "Budi Santoso", "")
		seedStudent(t, db, "1002", "Budi Santana", "")
		seedProfile(t, db, "u1", "Budi Santoso", "1001", models.RoleStudent)
		seedProfile(t, db, "u2", "Budi Santana", "1002", models.RoleStudent)

		seen := make(map[string]string)
		for _, accountID := range order {
			res, err := r.Resolve(context.Background(), identity.Account{ID: accountID}, persist())
			require.NoError(t, err)
			seen[accountID] = res.Student.ID
		}

		assert.NotEqual(t, seen["u1"], seen["u2"], "order %v double-linked one record", order)
	}
}

func TestResolveBootstrapCreatesStudentRecord(t *testing.T) {
	r, db := setup(t)
	seedProfile(t, db, "u1", "Budi Santoso", "", models.RoleStudent)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1", Email: "budi@example.com"}, persist())
	require.NoError(t, err)

	assert.Equal(t, "bootstrap", res.Strategy)
	assert.True(t, res.Linked)
	assert.Equal(t, "Budi Santoso", res.Student.FullName)
	assert.Equal(t, models.StatusActive, res.Student.Status)
	assert.True(t, validation.IsPlaceholderNIS(res.Student.NIS))
	require.NotNil(t, res.Student.LinkedAccountID)
	assert.Equal(t, "u1", *res.Student.LinkedAccountID)
}

func TestResolveBootstrapPlaceholderNISAreDistinct(t *testing.T) {
	r, db := setup(t)
	seedProfile(t, db, "u1", "Budi Santoso", "", models.RoleStudent)
	seedProfile(t, db, "u2", "Siti Rahma", "", models.RoleStudent)

	resA, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	require.NoError(t, err)
	resB, err := r.Resolve(context.Background(), identity.Account{ID: "u2"}, persist())
	require.NoError(t, err)

	assert.NotEqual(t, resA.Student.NIS, resB.Student.NIS)
	assert.True(t, validation.IsPlaceholderNIS(resA.Student.NIS))
	assert.True(t, validation.IsPlaceholderNIS(resB.Student.NIS))
	_ = db
}

func TestResolveBootstrapDisallowed(t *testing.T) {
	r, _ := setup(t)

	opts := identity.Options{PersistLinks: true, AllowBootstrap: false}
	_, err := r.Resolve(context.Background(), identity.Account{ID: "u1", Email: "budi@example.com"}, opts)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotLinked)
}

func TestResolveBootstrapOnlyForStudentRole(t *testing.T) {
	r, db := setup(t)
	seedProfile(t, db, "u1", "Rina Wijaya", "", models.RoleAdmin)

	_, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, persist())
	assert.ErrorIs(t, err, apperrors.ErrBootstrapNotAllowed)
}

func TestResolveRoleClaimBlocksBootstrap(t *testing.T) {
	r, db := setup(t)

	// First-seen staff account: the lazy profile adopts the provider's
	// role claim, so the student-only bootstrap never fires.
	account := identity.Account{ID: "staff-1", Email: "guru@example.com", Role: "HOMEROOM_TEACHER"}
	_, err := r.Resolve(context.Background(), account, persist())
	assert.ErrorIs(t, err, apperrors.ErrBootstrapNotAllowed)

	profile, err := inmem.NewProfileRepository(db).GetByID(context.Background(), "staff-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, models.RoleHomeroom, profile.Role)
}

func TestResolveReadOnlyPerformsNoWrites(t *testing.T) {
	r, db := setup(t)
	s1 := seedStudent(t, db, "1001", "Budi Santoso", "")
	seedProfile(t, db, "u1", "Budi Santoso", "1001", models.RoleStudent)
	writesBefore := db.WriteCount()

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1"}, identity.Options{})
	require.NoError(t, err)

	assert.Equal(t, s1.ID, res.Student.ID)
	assert.Equal(t, "nis-match", res.Strategy)
	assert.False(t, res.Linked)
	assert.Equal(t, writesBefore, db.WriteCount())

	stored, err := inmem.NewStudentRepository(db).GetByID(context.Background(), s1.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LinkedAccountID)
}

func TestResolveReadOnlyUnknownAccountDoesNotCreateProfile(t *testing.T) {
	r, db := setup(t)

	_, err := r.Resolve(context.Background(), identity.Account{ID: "u1", Email: "budi@example.com"}, identity.Options{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotLinked)

	stored, err := inmem.NewProfileRepository(db).GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, 0, db.WriteCount())
}

func TestResolveCreatesProfileLazily(t *testing.T) {
	r, db := setup(t)

	res, err := r.Resolve(context.Background(), identity.Account{ID: "u1", Email: "budi.santoso@example.com"}, persist())
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", res.Strategy)

	profile, err := inmem.NewProfileRepository(db).GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "budi.santoso", profile.FullName)
	assert.Equal(t, models.DefaultRole, profile.Role)
}

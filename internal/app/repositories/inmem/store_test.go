package inmem

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

func seedStudent(t *testing.T, repo *StudentRepository, id, nis, fullName string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, repo.Insert(context.Background(), &models.Student{
		ID:        id,
		NIS:       nis,
		FullName:  fullName,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestInsertRejectsDuplicateNIS(t *testing.T) {
	repo := NewStudentRepository(Open())
	seedStudent(t, repo, "s1", "1001", "Budi Santoso")

	err := repo.Insert(context.Background(), &models.Student{ID: "s2", NIS: "1001", FullName: "Siti"})
	assert.ErrorIs(t, err, apperrors.ErrNISExists)
}

func TestLinkIsCompareAndSet(t *testing.T) {
	repo := NewStudentRepository(Open())
	seedStudent(t, repo, "s1", "1001", "Budi Santoso")

	linked, err := repo.Link(context.Background(), "s1", "u1")
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = repo.Link(context.Background(), "s1", "u2")
	require.NoError(t, err)
	assert.False(t, linked)

	// Same account retry stays a success.
	linked, err = repo.Link(context.Background(), "s1", "u1")
	require.NoError(t, err)
	assert.True(t, linked)

	_, err = repo.Link(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestLinkUnderConcurrency(t *testing.T) {
	// Many accounts race for one orphan; exactly one may win.
	repo := NewStudentRepository(Open())
	seedStudent(t, repo, "s1", "1001", "Budi Santoso")

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan string, racers)

	for i := 0; i < racers; i++ {
		accountID := string(rune('a' + i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			linked, err := repo.Link(context.Background(), "s1", accountID)
			assert.NoError(t, err)
			if linked {
				wins <- accountID
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)

	stored, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, winners[0], *stored.LinkedAccountID)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	repo := NewStudentRepository(Open())
	seedStudent(t, repo, "s1", "1001", "Budi Santoso")

	a, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	a.FullName = "mutated"

	b, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", b.FullName)
}

func TestFindUnlinkedByNameMatchesLiterally(t *testing.T) {
	db := Open()
	repo := NewStudentRepository(db)
	seedStudent(t, repo, "s1", "1001", "Budi Santoso")

	// An email-derived fragment with an underscore is not a wildcard; it
	// must not match the space in the stored name.
	res, err := repo.FindUnlinkedByName(context.Background(), "budi_santoso")
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = repo.FindUnlinkedByName(context.Background(), "udi Sant")
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestProfileCreateIfAbsent(t *testing.T) {
	db := Open()
	repo := NewProfileRepository(db)
	now := time.Now()

	first, err := repo.CreateIfAbsent(context.Background(), &models.Profile{
		ID: "u1", FullName: "Budi", Role: models.RoleStudent, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi", first.FullName)

	// Second insert with a different name must return the stored row.
	second, err := repo.CreateIfAbsent(context.Background(), &models.Profile{
		ID: "u1", FullName: "Somebody Else", Role: models.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi", second.FullName)
	assert.Equal(t, models.RoleStudent, second.Role)
	assert.Equal(t, 1, db.WriteCount())
}

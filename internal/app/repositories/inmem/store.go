// Package inmem provides map-backed implementations of the identity stores.
// They back the test suite and the demo mode; production uses the Postgres
// repositories.
package inmem

import (
	"context"
	"strings"
	"sync"

	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

type (
	// DB is an in-memory stand-in for the relational store.
	DB struct {
		students *studentTable
		profiles *profileTable
	}

	studentTable struct {
		t      map[string]*models.Student
		writes int
		mutex  sync.RWMutex
	}

	profileTable struct {
		t      map[string]*models.Profile
		writes int
		mutex  sync.RWMutex
	}
)

// Open creates an empty in-memory database.
func Open() *DB {
	return &DB{
		students: &studentTable{t: make(map[string]*models.Student)},
		profiles: &profileTable{t: make(map[string]*models.Profile)},
	}
}

// WriteCount returns the total number of mutations performed, across both
// tables. Tests use it to assert that repeated resolutions stay read-only.
func (db *DB) WriteCount() int {
	db.students.mutex.RLock()
	defer db.students.mutex.RUnlock()
	db.profiles.mutex.RLock()
	defer db.profiles.mutex.RUnlock()
	return db.students.writes + db.profiles.writes
}

// StudentRepository is the in-memory identity.StudentStore.
type StudentRepository struct {
	db *studentTable
}

// NewStudentRepository creates a student repository over the database.
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db.students}
}

func (r *StudentRepository) snapshot() []*models.Student {
	res := make([]*models.Student, 0, len(r.db.t))
	for _, s := range r.db.t {
		clone := *s
		res = append(res, &clone)
	}
	return res
}

// GetByID retrieves a student by primary key.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if s, ok := r.db.t[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, nil
}

// FindByLinkedAccount retrieves the student linked to the given account.
func (r *StudentRepository) FindByLinkedAccount(ctx context.Context, accountID string) (*models.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.snapshot() {
		if s.IsLinkedTo(accountID) {
			return s, nil
		}
	}
	return nil, nil
}

// FindByNIS retrieves the student with the given enrollment number.
func (r *StudentRepository) FindByNIS(ctx context.Context, nis string) (*models.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.snapshot() {
		if s.NIS == nis {
			return s, nil
		}
	}
	return nil, nil
}

// FindUnlinkedByName returns unlinked students whose full name contains the
// fragment, case-insensitively.
func (r *StudentRepository) FindUnlinkedByName(ctx context.Context, fragment string) ([]*models.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(fragment))
	var res []*models.Student
	for _, s := range r.snapshot() {
		if !s.IsLinked() && strings.Contains(strings.ToLower(s.FullName), needle) {
			res = append(res, s)
		}
	}
	return res, nil
}

// ListUnlinked returns every student without a linked account.
func (r *StudentRepository) ListUnlinked(ctx context.Context) ([]*models.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var res []*models.Student
	for _, s := range r.snapshot() {
		if !s.IsLinked() {
			res = append(res, s)
		}
	}
	return res, nil
}

// Insert stores a new student record.
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, s := range r.db.t {
		if s.NIS == student.NIS {
			return apperrors.ErrNISExists
		}
	}

	clone := *student
	r.db.t[student.ID] = &clone
	r.db.writes++
	return nil
}

// Link performs the conditional link write: compare-and-set on the unlinked
// state under the table lock.
func (r *StudentRepository) Link(ctx context.Context, studentID, accountID string) (bool, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	s, ok := r.db.t[studentID]
	if !ok {
		return false, apperrors.ErrStudentNotFound
	}
	if s.IsLinked() {
		return s.IsLinkedTo(accountID), nil
	}

	s.LinkedAccountID = &accountID
	r.db.writes++
	return true, nil
}

// ProfileRepository is the in-memory identity.ProfileStore.
type ProfileRepository struct {
	db *profileTable
}

// NewProfileRepository creates a profile repository over the database.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.profiles}
}

// GetByID retrieves a profile by account id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if p, ok := r.db.t[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

// CreateIfAbsent inserts the profile unless one exists, returning the stored
// row either way.
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if existing, ok := r.db.t[profile.ID]; ok {
		clone := *existing
		return &clone, nil
	}

	clone := *profile
	r.db.t[profile.ID] = &clone
	r.db.writes++

	out := clone
	return &out, nil
}

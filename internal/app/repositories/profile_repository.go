package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/pkg/logger"
)

var profileColumns = []string{"id", "full_name", "nis", "role", "created_at", "updated_at"}

// ProfileRepository handles profile database operations. It implements
// identity.ProfileStore on top of Postgres.
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.FullName, &p.NIS, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by account id
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("accountId", id).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return profile, nil
}

// CreateIfAbsent inserts the profile unless one exists for the same account.
// ON CONFLICT DO NOTHING followed by a re-read keeps concurrent first logins
// from race-creating duplicates.
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	sql, args, err := r.sb.Insert("profiles").
		Columns(profileColumns...).
		Values(profile.ID, profile.FullName, profile.NIS, profile.Role,
			profile.CreatedAt, profile.UpdatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return nil, fmt.Errorf("failed to build create profile query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("accountId", profile.ID).Msg("Error executing create profile query")
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	stored, err := r.GetByID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("profile %s missing after upsert", profile.ID)
	}

	return stored, nil
}

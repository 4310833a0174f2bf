package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/danuarta/siswalink/internal/app/models"
	appRepos "github.com/danuarta/siswalink/internal/app/repositories"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

// CreateDemoData inserts a handful of student records and staff profiles so
// a fresh install has something to resolve against. Only runs when the
// resolver.seed_demo_data flag is set; every insert tolerates existing rows.
func CreateDemoData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	studentRepo := appRepos.NewStudentRepository(dbPool)
	profileRepo := appRepos.NewProfileRepository(dbPool)

	lgr.Info().Msg("Checking/Creating demo data (students, staff profiles)...")
	var finalErr error

	now := time.Now()
	students := []*appModels.Student{
		{NIS: "2023100245", FullName: "Budi Santoso", Gender: appModels.GenderMale, ClassName: "XII RPL 1"},
		{NIS: "2023100246", FullName: "Siti Rahma", Gender: appModels.GenderFemale, ClassName: "XII RPL 1"},
		{NIS: "2024100312", FullName: "Agus Pratama", Gender: appModels.GenderMale, ClassName: "XI TKJ 2"},
	}

	for _, s := range students {
		s.ID = uuid.New().String()
		s.Status = appModels.StatusActive
		s.CreatedAt = now
		s.UpdatedAt = now

		if err := studentRepo.Insert(ctx, s); err != nil {
			if errors.Is(err, apperrors.ErrNISExists) {
				continue
			}
			lgr.Error().Err(err).Str("nis", s.NIS).Msg("Error seeding demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	adminProfile := &appModels.Profile{
		ID:        "demo-admin",
		FullName:  "Admin Kesiswaan",
		Role:      appModels.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := profileRepo.CreateIfAbsent(ctx, adminProfile); err != nil {
		lgr.Error().Err(err).Msg("Error seeding demo admin profile")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Demo data check/creation completed.")
	}
	return finalErr
}

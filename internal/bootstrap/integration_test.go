//go:build integration

package bootstrap_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/scholaris/internal/app/migrations"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	appRepos "github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
	"github.com/yigit/scholaris/internal/seed"
)

// startDatabase runs a throwaway PostgreSQL with the schema applied
func startDatabase(t *testing.T) (*db.PostgresDB, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("scholaris_test"),
		tcpostgres.WithUsername("scholaris"),
		tcpostgres.WithPassword("scholaris"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, migrations.NewMigrator(connStr, zerolog.Nop()).Up())

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	database := db.NewFromPool(pool)
	t.Cleanup(database.Close)

	return database, connStr
}

func TestPostgresIntegration(t *testing.T) {
	database, connStr := startDatabase(t)
	ctx := context.Background()
	repos := appRepos.NewRepositories(database)
	admin := seed.AdminAccount{Email: "root@scholaris.test", Password: "Sup3r-secret"}

	t.Run("seed is idempotent", func(t *testing.T) {
		require.NoError(t, seed.CreateDefaultData(ctx, repos, admin, zerolog.Nop()))
		require.NoError(t, seed.CreateDefaultData(ctx, repos, admin, zerolog.Nop()))

		programs, err := repos.ProgramRepository.List(ctx)
		require.NoError(t, err)
		assert.Len(t, programs, len(models.AllPrograms))

		user, err := repos.UserRepository.GetByEmail(ctx, admin.Email)
		require.NoError(t, err)
		assert.Equal(t, models.RoleSuperAdmin, user.Role)
		assert.True(t, auth.CheckPassword(user.PasswordHash, admin.Password))

		provinces, err := repos.LocationRepository.ListProvinces(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, provinces)
	})

	tdp, err := repos.ProgramRepository.GetByCode(ctx, models.ProgramTDP)
	require.NoError(t, err)

	t.Run("award numbers are unique per program", func(t *testing.T) {
		first := &models.Scholar{ProgramID: tdp.ID, AwardNumber: "TDP-R5-0001", LastName: "Dela Cruz", FirstName: "Juan", Sex: models.SexMale}
		require.NoError(t, repos.ScholarRepository.Create(ctx, first))
		assert.Equal(t, models.ScholarApplicant, first.Status)

		dup := &models.Scholar{ProgramID: tdp.ID, AwardNumber: "TDP-R5-0001", LastName: "Santos", FirstName: "Maria", Sex: models.SexFemale}
		assert.ErrorIs(t, repos.ScholarRepository.Create(ctx, dup), apperrors.ErrAwardNumberExists)

		lower := &models.Scholar{ProgramID: tdp.ID, AwardNumber: "tdp-r5-0001", LastName: "Santos", FirstName: "Maria", Sex: models.SexFemale}
		assert.ErrorIs(t, repos.ScholarRepository.Create(ctx, lower), apperrors.ErrAwardNumberExists)

		found, err := repos.ScholarRepository.GetByAwardNumber(ctx, tdp.ID, "tdp-r5-0001")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("an HEI reference prefers the UII over a name", func(t *testing.T) {
		heis := services.NewHEIService(repos.HEIRepository)
		byName, err := heis.CreateHEI(ctx, &dto.HEIRequest{UII: "UII-100", Name: "UII-200", Type: "PRIVATE"})
		require.NoError(t, err)
		byUII, err := heis.CreateHEI(ctx, &dto.HEIRequest{UII: "UII-200", Name: "Northern College", Type: "PRIVATE"})
		require.NoError(t, err)
		require.Less(t, byName.ID, byUII.ID)

		found, err := repos.HEIRepository.FindByNameOrUII(ctx, "UII-200")
		require.NoError(t, err)
		assert.Equal(t, byUII.ID, found.ID)

		found, err = repos.HEIRepository.FindByNameOrUII(ctx, "northern college")
		require.NoError(t, err)
		assert.Equal(t, byUII.ID, found.ID)
	})

	t.Run("an HEI with academic records cannot be deleted", func(t *testing.T) {
		heis := services.NewHEIService(repos.HEIRepository)
		hei, err := heis.CreateHEI(ctx, &dto.HEIRequest{UII: "UII-300", Name: "Eastern State University", Type: "SUC"})
		require.NoError(t, err)

		scholar := &models.Scholar{ProgramID: tdp.ID, AwardNumber: "TDP-R5-0300", LastName: "Lim", FirstName: "Lea", Sex: models.SexFemale}
		require.NoError(t, repos.ScholarRepository.Create(ctx, scholar))
		record := &models.AcademicRecord{
			ScholarID: scholar.ID, HEIID: hei.ID, Course: "BSED", YearLevel: 1,
			AcademicYear: "2024-2025", Semester: 1, Status: models.AcademicEnrolled,
		}
		require.NoError(t, repos.AcademicRecordRepository.Create(ctx, record))

		assert.ErrorIs(t, heis.DeleteHEI(ctx, hei.ID), apperrors.ErrHEIHasRelations)

		require.NoError(t, repos.AcademicRecordRepository.Delete(ctx, record.ID))
		require.NoError(t, heis.DeleteHEI(ctx, hei.ID))
	})

	t.Run("a province with localities cannot be deleted", func(t *testing.T) {
		locations := services.NewLocationService(repos.LocationRepository)
		province, err := locations.CreateProvince(ctx, "Integration Province")
		require.NoError(t, err)
		city, err := locations.CreateLocality(ctx, appRepos.LocalityCity, province.ID, "Integration City")
		require.NoError(t, err)

		assert.ErrorIs(t, locations.DeleteProvince(ctx, province.ID), apperrors.ErrLocationInUse)

		require.NoError(t, locations.DeleteLocality(ctx, appRepos.LocalityCity, city.ID))
		require.NoError(t, locations.DeleteProvince(ctx, province.ID))
	})

	t.Run("concurrent leave filings for the same dates admit one", func(t *testing.T) {
		user, err := repos.UserRepository.GetByEmail(ctx, admin.Email)
		require.NoError(t, err)
		leaves := services.NewLeaveService(database, repos.LeaveRepository)
		actor := services.Actor{UserID: user.ID, Role: user.Role}

		var accepted, rejected atomic.Int32
		var g errgroup.Group
		for i := 0; i < 8; i++ {
			g.Go(func() error {
				_, err := leaves.FileLeave(ctx, actor, &dto.LeaveRequest{
					LeaveType: "VACATION", StartDate: "2026-11-02", EndDate: "2026-11-04",
				})
				switch {
				case err == nil:
					accepted.Add(1)
				case apperrors.Is(err, apperrors.ErrConflict):
					rejected.Add(1)
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, int32(1), accepted.Load())
		assert.Equal(t, int32(7), rejected.Load())
	})

	t.Run("concurrent obligations never exceed the sub-allotment", func(t *testing.T) {
		budget := services.NewBudgetService(database, repos.BudgetRepository)
		sa, err := budget.CreateSubAllotment(ctx, tdp.ID, &dto.SubAllotmentRequest{
			SARONumber: "SARO-ROV-24-0001",
			FiscalYear: 2024,
			Amount:     1000,
		})
		require.NoError(t, err)

		var accepted, rejected atomic.Int32
		var g errgroup.Group
		for i := 0; i < 10; i++ {
			ors := fmt.Sprintf("ORS-2024-03-%04d", i+1)
			g.Go(func() error {
				_, err := budget.CreateObligation(ctx, tdp.ID, sa.ID, &dto.ObligationRequest{
					ORSNumber:   ors,
					Payee:       "State University",
					Amount:      150,
					ObligatedOn: "2024-03-01",
				})
				switch {
				case err == nil:
					accepted.Add(1)
				case apperrors.Is(err, apperrors.ErrBudgetExceeded):
					rejected.Add(1)
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, int32(6), accepted.Load())
		assert.Equal(t, int32(4), rejected.Load())

		got, err := budget.GetSubAllotment(ctx, tdp.ID, sa.ID)
		require.NoError(t, err)
		assert.InDelta(t, 900, got.Obligated, 0.001)
	})

	t.Run("migration status reports the latest version", func(t *testing.T) {
		m := migrations.NewMigrator(connStr, zerolog.Nop())
		version, dirty, err := m.Status()
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.EqualValues(t, 6, version)
	})
}

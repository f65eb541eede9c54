package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/scholaris/internal/app/models"
	appRepos "github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
)

// AdminAccount is the superadmin created on an empty users table
type AdminAccount struct {
	Email    string
	Password string
}

// defaultProvinces fills an empty address hierarchy so a fresh install can
// register HEIs right away
var defaultProvinces = []string{
	"Albay", "Camarines Norte", "Camarines Sur", "Catanduanes", "Masbate", "Sorsogon",
}

// CreateDefaultData upserts the program catalogue, creates the superadmin
// account when missing and seeds provinces into an empty table. It keeps
// going after a failure and returns every error joined.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, admin AdminAccount, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (programs, superadmin, provinces)...")
	var finalErr error

	// --- Programs --- //
	for _, code := range appModels.AllPrograms {
		p := &appModels.Program{Code: code, Name: appModels.ProgramNames[code]}
		if err := repos.ProgramRepository.Upsert(ctx, p); err != nil {
			lgr.Error().Err(err).Str("code", string(code)).Msg("Error upserting program")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Superadmin --- //
	if admin.Email == "" || admin.Password == "" {
		lgr.Warn().Msg("Seed admin email or password not configured, skipping superadmin creation")
	} else if err := createSuperAdmin(ctx, repos.UserRepository, admin, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	// --- Provinces --- //
	provinces, err := repos.LocationRepository.ListProvinces(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing provinces")
		finalErr = errors.Join(finalErr, err)
	} else if len(provinces) == 0 {
		for _, name := range defaultProvinces {
			if err := repos.LocationRepository.CreateProvince(ctx, &appModels.Province{Name: name}); err != nil {
				lgr.Error().Err(err).Str("province", name).Msg("Error creating province")
				finalErr = errors.Join(finalErr, err)
			}
		}
		lgr.Info().Int("count", len(defaultProvinces)).Msg("Default provinces created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createSuperAdmin(ctx context.Context, users *appRepos.UserRepository, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		lgr.Info().Msg("Superadmin already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		lgr.Error().Err(err).Msg("Error checking if superadmin exists")
		return err
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing superadmin password")
		return err
	}
	u := &appModels.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         appModels.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, u); err != nil {
		lgr.Error().Err(err).Msg("Error creating superadmin")
		return err
	}
	lgr.Info().Int64("userID", u.ID).Str("email", email).Msg("Default superadmin created successfully")
	return nil
}

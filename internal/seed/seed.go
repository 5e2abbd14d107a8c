// Package seed creates the records a fresh installation needs: the default
// admin account. Seeding is idempotent and safe to run on every start.
package seed

import (
	"context"
	"errors"
	"os"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

const defaultAdminEmail = "admin@sevasetu.org"

// Run seeds the default admin user when none exists. The initial password
// comes from ADMIN_PASSWORD; without it no admin is created, which keeps
// accidental default credentials out of real deployments.
func Run(ctx context.Context, repos *repositories.Repositories) error {
	_, err := repos.User.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Warn().Msg("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	id, err := repos.User.Create(ctx, &models.User{
		Email:     defaultAdminEmail,
		Password:  hashed,
		FirstName: "SevaSetu",
		LastName:  "Admin",
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	})
	if err != nil {
		return err
	}

	logger.Info().Int64("userID", id).Str("email", defaultAdminEmail).Msg("Seeded default admin user")
	return nil
}

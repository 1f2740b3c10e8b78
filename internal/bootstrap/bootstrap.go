package bootstrap

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pokehub/pokedex-backend/internal/users"
	"github.com/pokehub/pokedex-backend/pkg/config"
	"github.com/pokehub/pokedex-backend/pkg/db"
	"github.com/pokehub/pokedex-backend/pkg/db/models"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
	"github.com/pokehub/pokedex-backend/pkg/logger"
	"github.com/pokehub/pokedex-backend/pkg/security"
)

// Run prepares the database for serving: applies the schema when the
// auto-migrate flag is on and seeds the configured admin account. Both steps
// are idempotent so restarts are safe.
func Run(ctx context.Context, client *db.Client, cfg *config.Config, logg *logger.Logger) error {
	if client == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}

	if cfg.FeatureFlags.AutoMigrate {
		if err := client.DB().WithContext(ctx).AutoMigrate(
			&models.User{},
			&models.FavoriteEntry{},
			&models.TeamEntry{},
		); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying schema")
		}
		if logg != nil {
			logg.Info(ctx, "database schema applied")
		}
	}

	return seedAdmin(ctx, client, cfg, logg)
}

func seedAdmin(ctx context.Context, client *db.Client, cfg *config.Config, logg *logger.Logger) error {
	if !cfg.Bootstrap.SeedAdmin() {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail))
	return client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking admin account")
		}

		passwordHash, err := security.HashPassword(cfg.Bootstrap.AdminPassword, cfg.Password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing admin password")
		}

		if _, err := repo.Create(ctx, users.CreateUserDTO{
			Name:         cfg.Bootstrap.AdminName,
			Nickname:     cfg.Bootstrap.AdminNickname,
			Email:        email,
			PasswordHash: passwordHash,
			IsAdmin:      true,
		}); err != nil {
			if db.IsUniqueViolation(err) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating admin account")
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "email", email), "admin account seeded")
		}
		return nil
	})
}

package migrate

import (
	"context"
	"fmt"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations on boot in dev when
// PETCARE_AUTO_MIGRATE is on. sqlite gets the mirrored schema instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "applying sqlite schema (dev auto-run)")
		return ApplySQLiteSchema(client.DB())
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "source": "embedded"})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}

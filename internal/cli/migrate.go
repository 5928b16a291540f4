package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vietddude/warroom/internal/core/config"
	"github.com/vietddude/warroom/internal/infra/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	run(migrate)
}

func migrate(cfg *config.AppConfig) error {
	ctx := context.Background()
	dbCfg := cfg.Database
	off := false
	dbCfg.Migrate = &off
	db, err := postgres.NewDB(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	slog.Info("Migrations applied")
	return nil
}

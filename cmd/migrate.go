package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/user-management/db/migrations"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/core/db"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files (embedded, or under --dir)",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory; the embedded migrations are used when empty")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// goose migrations target PostgreSQL; sqlite is for local runs and uses the models.
	if cfg.Database.Driver == "sqlite" {
		gdb, err := db.Open(cfg.Database, false)
		if err != nil {
			return err
		}
		if err := gdb.AutoMigrate(userDatamodel.Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		fmt.Println("sqlite schema migrated")
		return nil
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer sqlDB.Close()

	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		dir = "."
	}

	if migrateRollback {
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			log.Fatalf("goose down: %v", err)
		}
		return nil
	}

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		log.Fatalf("goose up: %v", err)
	}

	return nil
}

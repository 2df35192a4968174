package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elseibo-mission/gallery-server/internal/infrastructure/kvstore"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/repository/credentials"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/repository/guestimages"
	"github.com/elseibo-mission/gallery-server/internal/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import legacy JSON data into Redis",
	Long: `Copy the legacy auth.json, guests.json and guest_metadata.json files into Redis.

Missing files are skipped. Guest images already indexed are left alone, so the
command can be run more than once.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().String("redis-url", envOr("REDIS_URL", ""), "Redis connection URL")
	migrateCmd.Flags().String("auth", "server/auth.json", "Admin credentials file")
	migrateCmd.Flags().String("guests", "server/guests.json", "Guest passwords file")
	migrateCmd.Flags().String("metadata", "server/guest_metadata.json", "Guest image metadata file")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	redisURL, _ := cmd.Flags().GetString("redis-url")
	if redisURL == "" {
		return fmt.Errorf("--redis-url or REDIS_URL is required")
	}
	src := migration.Sources{}
	src.AdminAuth, _ = cmd.Flags().GetString("auth")
	src.GuestPassword, _ = cmd.Flags().GetString("guests")
	src.GuestMetadata, _ = cmd.Flags().GetString("metadata")

	log := newLogger(cmd)
	store, err := kvstore.NewRedisStore(cmd.Context(), redisURL, log)
	if err != nil {
		return err
	}
	defer store.Close()

	importer := migration.NewImporter(
		credentials.NewRepository(store, log),
		guestimages.NewRepository(store, log),
		log,
	)
	report, err := importer.Run(cmd.Context(), src)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Admins:          %d\n", report.Admins)
	fmt.Fprintf(out, "Guest passwords: %d added\n", report.GuestPasswords)
	fmt.Fprintf(out, "Guest images:    %d added\n", report.GuestImages)
	for _, path := range report.Skipped {
		fmt.Fprintf(out, "Skipped %s (not found)\n", path)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/elseibo-mission/gallery-server/pkg/uploader"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gallery-cli",
	Short: "Mission gallery CLI - uploads, listings and maintenance",
	Long: `gallery-cli talks to the mission gallery API.

Examples:
  # Sign in and keep the token for later commands
  gallery-cli login --username admin --password secret

  # Upload a batch of photos to the guest gallery
  gallery-cli upload --type guest --owner Ana photos/*.jpg

  # Show both galleries
  gallery-cli list admin
  gallery-cli list guest

  # Import the legacy JSON files into Redis
  gallery-cli migrate --redis-url redis://localhost:6379 --auth server/auth.json`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(migrateCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("server", envOr("GALLERY_SERVER", "http://localhost:8285"), "Gallery API base URL")
	rootCmd.PersistentFlags().String("token", os.Getenv("GALLERY_TOKEN"), "Bearer token (overrides the token file)")
	rootCmd.PersistentFlags().String("token-file", defaultTokenFile(), "Where login stores the session token")
	rootCmd.PersistentFlags().Duration("timeout", 60*time.Second, "Per-request timeout")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gallery-token"
	}
	return filepath.Join(home, ".gallery-token")
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		With().Timestamp().Str("component", "gallery-cli").Logger().
		Level(level)
}

// newClient builds an API client carrying the token from --token or the token file.
func newClient(cmd *cobra.Command) (*uploader.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	token, err := resolveToken(cmd)
	if err != nil {
		return nil, err
	}
	return uploader.NewClient(server, uploader.WithTimeout(timeout), uploader.WithToken(token)), nil
}

func resolveToken(cmd *cobra.Command) (string, error) {
	if token, _ := cmd.Flags().GetString("token"); strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), nil
	}
	path, _ := cmd.Flags().GetString("token-file")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func parseClass(raw string) (uploader.Class, error) {
	switch uploader.Class(strings.ToLower(strings.TrimSpace(raw))) {
	case uploader.ClassAdmin:
		return uploader.ClassAdmin, nil
	case uploader.ClassGuest:
		return uploader.ClassGuest, nil
	case uploader.ClassSiteAsset, "site-asset":
		return uploader.ClassSiteAsset, nil
	default:
		return "", fmt.Errorf("unknown upload type %q (want admin, guest or site_asset)", raw)
	}
}

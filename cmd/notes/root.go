package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/credential"
)

var (
	verbose   bool
	envFile   string
	host      string
	tokenFile string
	readOnly  bool
	unsafeDev bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Keep a local view of your notes in sync with the notes API",
	Long: `notes talks to a notes REST API (GET/POST/PUT/DELETE on /api/notes).
The server is the authority: every change is sent first and applied locally
only once the server accepted it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Read NOTES_* settings from this file (default: .env at the project root)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "API host, overrides NOTES_HOST")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Credential file, overrides NOTES_TOKEN_FILE")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Refuse add, remove and edit")
	rootCmd.PersistentFlags().BoolVar(&unsafeDev, "unsafe", false, "Use the real credential file even under go run")
}

// loadConfig resolves settings from the env file, the environment and flags.
func loadConfig() (notesync.Config, error) {
	files := []string{}
	if envFile != "" {
		files = append(files, envFile)
	} else if wd, err := os.Getwd(); err == nil {
		if root, err := notesync.FindProjectRoot(wd); err == nil {
			files = append(files, filepath.Join(root, ".env"))
		}
	}

	cfg, err := notesync.LoadConfig(files...)
	if err != nil {
		return notesync.Config{}, err
	}
	if host != "" {
		cfg.Host = host
	}
	if tokenFile != "" {
		cfg.TokenFile = tokenFile
	}
	return cfg, nil
}

func baseOptions(cfg notesync.Config) []notesync.Option {
	opts := []notesync.Option{
		notesync.WithLogger(slog.Default()),
		notesync.WithReadOnly(readOnly),
		notesync.WithDevSafety(!unsafeDev),
		notesync.WithUserAgent("notes/" + strings.TrimSpace(notesync.Version)),
	}
	return append(opts, cfg.Options()...)
}

// openStore builds a store and performs the initial fetch. With requireFetch
// a failed fetch is fatal; otherwise it is logged and the store is returned
// empty, so commands that only write still reach the server.
func openStore(ctx context.Context, requireFetch bool) (*core.Store, notesync.Config) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("Error loading configuration", err)
	}

	opts := append(baseOptions(cfg), notesync.WithAutoConnect(true))
	store, err := notesync.New(ctx, cfg.Endpoint(), opts...)
	if err != nil {
		if requireFetch || store == nil {
			fatal("Error fetching notes", err)
		}
		slog.Warn("initial fetch failed", "error", err)
	}
	return store, cfg
}

// openCredentials opens the credential file the store reads tokens from.
func openCredentials() (*credential.FileStore, notesync.Config) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("Error loading configuration", err)
	}
	return notesync.OpenCredentials(baseOptions(cfg)...), cfg
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync/internal/fakeapi"
)

var (
	serveAddr     string
	serveEnvelope bool
	serveUsers    []string
	serveSecret   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an in-memory notes API for local development",
	Long: `Runs an in-memory notes API with the same routes as the real backend.
Notes are lost on exit. Seed users with --user email:password; a token for
each seeded user is printed on start.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		api := fakeapi.New(fakeapi.Config{
			Secret:   serveSecret,
			Envelope: serveEnvelope,
			Logger:   slog.Default(),
		})

		for _, entry := range serveUsers {
			email, password, ok := strings.Cut(entry, ":")
			if !ok {
				fatal("Invalid --user", fmt.Errorf("%q is not email:password", entry))
			}
			id, err := api.AddUser(email, password)
			if err != nil {
				fatal("Error adding user", err)
			}
			token, err := api.IssueToken(id)
			if err != nil {
				fatal("Error issuing token", err)
			}
			fmt.Printf("%s\t%s\n", email, token)
		}

		if err := api.ListenAndServe(ctx, serveAddr); err != nil {
			fatal("Server error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3002", "Listen address")
	serveCmd.Flags().BoolVar(&serveEnvelope, "envelope", false, `Wrap list responses as {"data": [...]}`)
	serveCmd.Flags().StringArrayVar(&serveUsers, "user", nil, "Seed a user as email:password (repeatable)")
	serveCmd.Flags().StringVar(&serveSecret, "secret", "", "Token signing key")
}

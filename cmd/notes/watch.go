package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/notesync"
	lcadapter "github.com/aretw0/notesync/pkg/adapters/lifecycle"
	"github.com/aretw0/notesync/pkg/credential"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print store changes and reload notes when the stored token changes",
	Long: `Fetches the notes, then prints every change applied to the local view.
When the token comes from the credential file, logging in or out (from another
terminal) reloads the notes.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, cfg := openStore(ctx, true)
		defer store.Close()

		if cfg.Token == "" {
			creds, _ := openCredentials()
			changes, err := creds.Watch(ctx)
			switch {
			case errors.Is(err, credential.ErrWatchUnsupported):
				slog.Warn("credential file cannot be watched", "path", creds.Path())
			case err != nil:
				fatal("Error watching credentials", err)
			default:
				lifecycle.Go(ctx, func(ctx context.Context) error {
					return notesync.RefreshOnChange(ctx, store, changes)
				}, lifecycle.WithErrorHandler(func(err error) {
					slog.Error("refresh loop failed", "error", err)
				}))
			}
		}

		source := lcadapter.NewSource(store)
		if err := source.Start(ctx); err != nil {
			fatal("Error subscribing", err)
		}

		fmt.Printf("Watching %d notes (Ctrl+C to stop)\n", store.Len())
		for ev := range source.Events() {
			fmt.Println(ev.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

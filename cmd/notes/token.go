package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync/pkg/adapters/rest"
	"github.com/aretw0/notesync/pkg/credential"
)

var (
	loginEmail    string
	loginPassword string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored auth token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store an auth token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		creds, _ := openCredentials()
		if err := creds.SetToken(args[0]); err != nil {
			fatal("Error saving token", err)
		}
		fmt.Printf("Token saved to %s\n", creds.Path())
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe the stored auth token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		creds, _ := openCredentials()
		state := creds.State().(credential.FileStoreState)
		if state.Error != "" {
			fatal("Error reading credentials", errors.New(state.Error))
		}

		fmt.Printf("file:    %s\n", state.Path)
		if !state.HasToken {
			fmt.Println("token:   (none)")
			return
		}
		fmt.Println("token:   present")
		if state.Subject != "" {
			fmt.Printf("subject: %s\n", state.Subject)
		}
		if state.ExpiresAt != nil {
			suffix := ""
			if state.ExpiresAt.Before(time.Now()) {
				suffix = " (expired)"
			}
			fmt.Printf("expires: %s%s\n", state.ExpiresAt.Format(time.RFC3339), suffix)
		}
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored auth token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		creds, _ := openCredentials()
		if err := creds.ClearToken(); err != nil {
			fatal("Error clearing token", err)
		}
		fmt.Println("Token cleared")
	},
}

var tokenLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password and store the returned token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		creds, cfg := openCredentials()

		password := loginPassword
		if password == "" {
			password = os.Getenv("NOTES_PASSWORD")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		token, err := rest.Login(ctx, nil, cfg.Host, loginEmail, password)
		if err != nil {
			fatal("Error logging in", err)
		}
		if err := creds.SetToken(token); err != nil {
			fatal("Error saving token", err)
		}
		fmt.Printf("Logged in, token saved to %s\n", creds.Path())
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd, tokenShowCmd, tokenClearCmd, tokenLoginCmd)

	tokenLoginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	tokenLoginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (default: $NOTES_PASSWORD)")
	_ = tokenLoginCmd.MarkFlagRequired("email")
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netprobe/netprobe-ui/internal/credentials"
)

func newLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token used for authenticated requests",
		Long:  `Stores the bearer token under the "token" key. Without --token the token is read from stdin.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("token") {
				token, err = readToken(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("token cannot be empty")
			}

			if err := e.store.Set(credentials.TokenKey, token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "token saved to %s (%s)\n",
				e.store.Path(), credentials.Status(token, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if err := e.store.Delete(credentials.TokenKey); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect the stored API token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print whether a token is stored and whether it has expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			token, _, err := e.store.Get(credentials.TokenKey)
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), describeToken(token, time.Now()))
			return nil
		},
	})

	return cmd
}

// describeToken formats the token status line(s) printed by "token status".
func describeToken(token string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "status: %s\n", credentials.Status(token, now))
	if exp, ok := credentials.ExpiresAt(token); ok {
		fmt.Fprintf(&sb, "expires: %s\n", exp.UTC().Format(time.RFC3339))
	}
	return sb.String()
}

func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

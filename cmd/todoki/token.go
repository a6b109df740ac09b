package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Kilerd/todoki/internal/config"
)

// tokenBytes is the entropy of a generated API token.
const tokenBytes = 32

func newTokenCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "API token utilities",
	}

	cmd.AddCommand(newTokenGenerateCmd())
	cmd.AddCommand(newTokenCheckCmd(configPath))
	return cmd
}

func newTokenGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Print a fresh random API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := generateToken()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func newTokenCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check a token against the configured one",
		Long:  "Prompts for a token without echo and reports whether it matches auth.token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenCheck(cmd, *configPath)
		},
	}
}

func runTokenCheck(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Auth.Token == "" {
		return fmt.Errorf("no auth.token configured in %s", configPath)
	}

	fmt.Fprint(out, "Token: ")
	entered, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	if !tokensEqual(string(entered), cfg.Auth.Token) {
		return fmt.Errorf("token does not match")
	}
	fmt.Fprintln(out, "Token matches.")
	return nil
}

// tokensEqual compares tokens in constant time.
func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kilerd/todoki/internal/db"
	"github.com/Kilerd/todoki/internal/ghimport"
)

func newGitHubCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github",
		Short: "GitHub integration commands",
	}

	cmd.AddCommand(newGitHubImportCmd(configPath))
	return cmd
}

func newGitHubImportCmd(configPath *string) *cobra.Command {
	var (
		repo  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import open GitHub issues as tasks",
		Long:  "Creates one todo task per open issue (pull requests are skipped), grouped under the repository name. Re-running imports the same issues again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGitHubImport(cmd, *configPath, repo, limit)
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "r", "", "repository as owner/name (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "import at most N issues (0 = all)")
	cmd.MarkFlagRequired("repo")
	return cmd
}

func runGitHubImport(cmd *cobra.Command, configPath, repo string, limit int) error {
	out := cmd.OutOrStdout()

	owner, name, found := strings.Cut(repo, "/")
	if !found || owner == "" || name == "" {
		return fmt.Errorf("repo %q is not owner/name", repo)
	}

	cfg, gormDB, _, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx := cmd.Context()
	issues := ghimport.NewClient(ctx, cfg.GitHub.Token)

	created, err := ghimport.Import(ctx, gormDB, issues, owner, name, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d issues from %s\n", created, repo)
	return nil
}

// Package ghimport turns open GitHub issues into todo tasks.
package ghimport

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/Kilerd/todoki/internal/task"
)

// IssueLister abstracts the GitHub issues API, enabling test fakes.
type IssueLister interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
}

// NewClient builds the issues client, authenticated when token is
// non-empty and anonymous otherwise.
func NewClient(ctx context.Context, token string) IssueLister {
	if token == "" {
		return github.NewClient(nil).Issues
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, src)).Issues
}

// Import creates one todo task per open issue of owner/repo, skipping
// pull requests, and returns the created count. limit <= 0 imports
// everything. Re-running imports the same issues again; there is no
// deduplication.
func Import(ctx context.Context, db *gorm.DB, issues IssueLister, owner, repo string, limit int) (int, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	created := 0
	for {
		page, resp, err := issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return created, fmt.Errorf("ghimport: list %s/%s: %w", owner, repo, err)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			if limit > 0 && created >= limit {
				return created, nil
			}
			content := issue.GetTitle()
			if url := issue.GetHTMLURL(); url != "" {
				content = fmt.Sprintf("%s (%s)", content, url)
			}
			if _, err := task.Create(db, task.CreateOpts{
				Content: content,
				Group:   repo,
			}); err != nil {
				return created, fmt.Errorf("ghimport: create task for #%d: %w", issue.GetNumber(), err)
			}
			created++
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return created, nil
}

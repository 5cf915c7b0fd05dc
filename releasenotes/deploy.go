package releasenotes

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v52/github"
)

// IssueSearcher is the subset of the GitHub search API used for deploy checks
type IssueSearcher interface {
	Issues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
}

// LabelChecker looks up the PR behind a merge commit and inspects its labels
type LabelChecker struct {
	Search     IssueSearcher
	Repository string
	Label      string
	// Warnings receives ambiguous-match notices; defaults to stderr
	Warnings io.Writer
}

// SpecialDeployRequirements reports whether the single merged PR for sha carries the deploy label
func (l *LabelChecker) SpecialDeployRequirements(ctx context.Context, sha string) (bool, error) {
	query := fmt.Sprintf("%s repo:%s is:merged", sha, l.Repository)
	logger.DebugMsg(fmt.Sprintf("searching issues: %s", query))

	result, _, err := l.Search.Issues(ctx, query, nil)
	if err != nil {
		return false, err
	}

	count := result.GetTotal()
	if count == 0 {
		// merge-back commits have no PR of their own
		return false, nil
	} else if count > 1 {
		logger.DebugMsg(fmt.Sprintf("ambiguous search for %s: %d results", sha, count))
		w := l.Warnings
		if w == nil {
			w = os.Stderr
		}
		if _, err := fmt.Fprintf(w, "warning: SHA %s had %d issues, not just one; ignoring\n", sha, count); err != nil {
			return false, err
		}
		return false, nil
	}
	if len(result.Issues) == 0 {
		return false, nil
	}

	marker := strings.ToLower(l.Label)
	for _, label := range result.Issues[0].Labels {
		if strings.Contains(strings.ToLower(label.GetName()), marker) {
			return true, nil
		}
	}
	return false, nil
}

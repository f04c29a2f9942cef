package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github-wrapped/domain/wrapped"
)

// FailurePolicy decides what a multi-part fetch does when one part fails.
type FailurePolicy int

const (
	// Propagate surfaces the first failure to the caller.
	Propagate FailurePolicy = iota
	// DegradeToZero swallows per-part failures, leaving a zero value. A
	// zero obtained this way means "possibly incomplete", not "definitely
	// zero".
	DegradeToZero
)

// SearchCount issues a count-only search query and returns the total match
// count without fetching result bodies. No extra retry is layered here:
// the search API has its own tighter rate limit and hammering it on
// failure only makes the window worse.
func (hc *Client) SearchCount(ctx context.Context, query string) (int, error) {
	endpoint := fmt.Sprintf("%s/search/issues?q=%s&per_page=1", hc.baseURL, url.QueryEscape(query))
	var out struct {
		TotalCount int `json:"total_count"`
	}
	if err := hc.getJSONOnce(ctx, endpoint, &out); err != nil {
		return 0, err
	}
	return out.TotalCount, nil
}

// FetchCollaboration runs the five yearly aggregate search counts (PRs
// opened and merged, issues opened and closed, reviews given)
// concurrently. Under DegradeToZero a failing query leaves its one count
// at zero and never disturbs the other four; under Propagate the first
// failure is returned.
func (hc *Client) FetchCollaboration(ctx context.Context, username string, year int, policy FailurePolicy) (wrapped.Collaboration, error) {
	slog.Info("phase.collab.fetch.start", "user", username, "year", year)
	start := fmt.Sprintf("%d-01-01", year)
	end := fmt.Sprintf("%d-12-31", year)

	queries := [5]string{
		fmt.Sprintf("author:%s type:pr created:%s..%s", username, start, end),
		fmt.Sprintf("author:%s type:pr merged:%s..%s", username, start, end),
		fmt.Sprintf("author:%s type:issue created:%s..%s", username, start, end),
		fmt.Sprintf("author:%s type:issue closed:%s..%s", username, start, end),
		fmt.Sprintf("reviewed-by:%s type:pr created:%s..%s", username, start, end),
	}

	var counts [5]int
	var errs [5]error
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(slot int, query string) {
			defer wg.Done()
			counts[slot], errs[slot] = hc.SearchCount(ctx, query)
		}(i, q)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if policy == Propagate {
			return wrapped.Collaboration{}, err
		}
		slog.Warn("phase.collab.query.degraded", "query", queries[i], "error", err)
	}

	collab := wrapped.Collaboration{
		PullRequestsOpened: counts[0],
		PullRequestsMerged: counts[1],
		IssuesOpened:       counts[2],
		IssuesClosed:       counts[3],
		CodeReviews:        counts[4],
	}
	slog.Info("phase.collab.fetch.done", "user", username,
		"prsOpened", collab.PullRequestsOpened, "prsMerged", collab.PullRequestsMerged,
		"issuesOpened", collab.IssuesOpened, "issuesClosed", collab.IssuesClosed,
		"reviews", collab.CodeReviews)
	return collab, nil
}

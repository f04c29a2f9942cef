package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	gh "github-wrapped/domain/github"
	"github-wrapped/domain/wrapped"
)

// collectPages fetches successive pages of a listing endpoint and
// accumulates the items keep accepts. It stops on an empty page, a short
// page (fewer raw items than requested, signalling the last page) or the
// maxPages safety cap. Upstream page order is preserved and no
// de-duplication is performed. A nil keep accepts everything.
func collectPages[T any](ctx context.Context, hc *Client, pageSize int, urlFor func(page int) string, keep func(T) bool) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		var items []T
		if err := hc.getJSON(ctx, urlFor(page), &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		for _, it := range items {
			if keep == nil || keep(it) {
				all = append(all, it)
			}
		}
		if len(items) < pageSize {
			break
		}
	}
	return all, nil
}

// FetchUser fetches the account profile for a username.
func (hc *Client) FetchUser(ctx context.Context, username string) (gh.User, error) {
	slog.Info("phase.user.fetch.start", "user", username)
	var u gh.User
	endpoint := fmt.Sprintf("%s/users/%s", hc.baseURL, url.PathEscape(username))
	if err := hc.getJSON(ctx, endpoint, &u); err != nil {
		return gh.User{}, err
	}
	slog.Info("phase.user.fetch.done", "user", username)
	return u, nil
}

// FetchRepos lists the account's repositories, keeping those pushed or
// updated within the target year.
func (hc *Client) FetchRepos(ctx context.Context, username string, year int) ([]gh.Repo, error) {
	slog.Info("phase.repos.fetch.start", "user", username, "year", year)
	repos, err := collectPages(ctx, hc, perPage, func(page int) string {
		return fmt.Sprintf("%s/users/%s/repos?per_page=%d&page=%d&sort=updated&type=all",
			hc.baseURL, url.PathEscape(username), perPage, page)
	}, func(r gh.Repo) bool {
		return wrapped.ActiveInYear(r, year)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("phase.repos.fetch.done", "user", username, "count", len(repos))
	return repos, nil
}

// FetchEvents lists the account's public events. The feed only reaches
// back ~90 days; callers treating it as a full-year signal get an
// approximation.
func (hc *Client) FetchEvents(ctx context.Context, username string) ([]gh.Event, error) {
	slog.Info("phase.events.fetch.start", "user", username)
	events, err := collectPages[gh.Event](ctx, hc, perPage, func(page int) string {
		return fmt.Sprintf("%s/users/%s/events/public?per_page=%d&page=%d",
			hc.baseURL, url.PathEscape(username), perPage, page)
	}, nil)
	if err != nil {
		return nil, err
	}
	slog.Info("phase.events.fetch.done", "user", username, "count", len(events))
	return events, nil
}

// FetchLanguages fetches one repository's language byte breakdown.
func (hc *Client) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	langs := map[string]int64{}
	endpoint := fmt.Sprintf("%s/repos/%s/%s/languages",
		hc.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	if err := hc.getJSON(ctx, endpoint, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github-wrapped/connectors/contributions"
	cg "github-wrapped/connectors/github"
	gh "github-wrapped/domain/github"
	"github-wrapped/domain/wrapped"
)

// AggregationError wraps the terminal failure of a mandatory sub-fetch,
// naming the phase that failed. Per-item degradations (single language
// fetch, single search query) never surface here.
type AggregationError struct {
	Phase string
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("wrapped aggregation: %s: %v", e.Phase, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// Aggregator drives the fetch components and derives the snapshot.
type Aggregator struct {
	gh      *cg.Client
	contrib *contributions.Client
}

func NewAggregator(ghc *cg.Client, contrib *contributions.Client) *Aggregator {
	return &Aggregator{gh: ghc, contrib: contrib}
}

// ComputeWrapped builds the immutable year-in-review snapshot for a
// username. A zero year means the current calendar year. The five top-level
// fetches run concurrently with all-or-nothing join semantics: any
// mandatory failure aborts the whole computation and no partial snapshot is
// returned.
func (a *Aggregator) ComputeWrapped(ctx context.Context, username string, year int) (*wrapped.Stats, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	slog.Info("wrapped.compute.start", "user", username, "year", year)

	var (
		wg     sync.WaitGroup
		user   gh.User
		repos  []gh.Repo
		events []gh.Event
		cal    wrapped.ContributionCalendar
		collab wrapped.Collaboration

		userErr, repoErr, eventErr, calErr, collabErr error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		user, userErr = a.gh.FetchUser(ctx, username)
	}()
	go func() {
		defer wg.Done()
		repos, repoErr = a.gh.FetchRepos(ctx, username, year)
	}()
	go func() {
		defer wg.Done()
		events, eventErr = a.gh.FetchEvents(ctx, username)
	}()
	go func() {
		defer wg.Done()
		cal, calErr = a.contrib.FetchCalendar(ctx, username, year)
	}()
	go func() {
		defer wg.Done()
		collab, collabErr = a.gh.FetchCollaboration(ctx, username, year, cg.DegradeToZero)
	}()
	wg.Wait()

	for _, f := range []struct {
		phase string
		err   error
	}{
		{"profile", userErr},
		{"repositories", repoErr},
		{"events", eventErr},
		{"calendar", calErr},
		{"collaboration", collabErr},
	} {
		if f.err != nil {
			slog.Error("wrapped.compute.error", "user", username, "phase", f.phase, "error", f.err)
			return nil, &AggregationError{Phase: f.phase, Err: f.err}
		}
	}

	languages := a.resolveLanguages(ctx, username, repos)

	longest, current := Streaks(cal)

	s := &wrapped.Stats{
		User:                 user,
		Year:                 year,
		TotalContributions:   cal.TotalContributions,
		ContributionCalendar: cal,
		LongestStreak:        longest,
		CurrentStreak:        current,
		MostProductiveDay:    MostProductiveDay(cal),
		MostProductiveMonth:  MostProductiveMonth(cal),
		TopRepositories:      TopRepositories(repos, topRepoCount),
		Languages:            languages,
		TotalStars:           TotalStars(repos),
		TotalForks:           TotalForks(repos),
		TotalCommits:         EstimateCommits(events, year),
		Collaboration:        collab,
	}
	slog.Info("wrapped.compute.done", "user", username, "year", year,
		"contributions", s.TotalContributions, "repos", len(repos), "commits", s.TotalCommits)
	return s, nil
}

// resolveLanguages fetches language byte breakdowns for a bounded subset of
// repositories and merges them into the ranked distribution. A failing
// repository contributes nothing and never aborts the others.
func (a *Aggregator) resolveLanguages(ctx context.Context, username string, repos []gh.Repo) []wrapped.LanguageStat {
	sample := repos
	if len(sample) > languageRepoCap {
		sample = sample[:languageRepoCap]
	}

	perRepo := make([]map[string]int64, 0, len(sample))
	for _, r := range sample {
		langs, err := a.gh.FetchLanguages(ctx, username, r.Name)
		if err != nil {
			slog.Warn("phase.languages.repo.skipped", "repo", r.Name, "error", err)
			continue
		}
		perRepo = append(perRepo, langs)
	}
	return MergeLanguages(perRepo, topLanguageCount)
}

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github-wrapped/connectors/contributions"
	cg "github-wrapped/connectors/github"
	"github-wrapped/domain/wrapped"
)

// mockUpstreams wires an aggregator against httptest servers standing in
// for the GitHub API and the contribution aggregator.
func mockUpstreams(t *testing.T, api http.Handler, calendar http.Handler) *Aggregator {
	t.Helper()
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)
	calSrv := httptest.NewServer(calendar)
	t.Cleanup(calSrv.Close)

	ghc := cg.New(apiSrv.Client(), "", apiSrv.URL)
	contrib := contributions.New(ghc, calSrv.Client(), calSrv.URL)
	return NewAggregator(ghc, contrib)
}

func zeroYearHandler(year int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type day struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
			Level int    `json:"level"`
		}
		var days []day
		start := wrapped.YearStart(year)
		end := wrapped.YearEnd(year)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			days = append(days, day{Date: d.Format("2006-01-02")})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"contributions": days})
	})
}

func TestComputeWrappedAllZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","followers":3,"public_repos":0}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/users/octocat/events/public", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 0}`)
	})

	agg := mockUpstreams(t, mux, zeroYearHandler(2023))
	s, err := agg.ComputeWrapped(context.Background(), "octocat", 2023)
	if err != nil {
		t.Fatal(err)
	}

	if s.User.Login != "octocat" {
		t.Errorf("login = %q", s.User.Login)
	}
	if s.Year != 2023 {
		t.Errorf("year = %d", s.Year)
	}
	if s.TotalContributions != 0 {
		t.Errorf("totalContributions = %d, want 0", s.TotalContributions)
	}
	if s.LongestStreak != 0 || s.CurrentStreak != 0 {
		t.Errorf("streaks = (%d, %d), want (0, 0)", s.LongestStreak, s.CurrentStreak)
	}
	if s.MostProductiveDay != "Sunday" {
		t.Errorf("mostProductiveDay = %q, want Sunday (first-index default)", s.MostProductiveDay)
	}
	if len(s.TopRepositories) != 0 {
		t.Errorf("topRepositories = %v, want empty", s.TopRepositories)
	}
	if len(s.Languages) != 0 {
		t.Errorf("languages = %v, want empty", s.Languages)
	}
	if s.TotalCommits != 0 || s.TotalStars != 0 || s.TotalForks != 0 {
		t.Errorf("totals = (%d, %d, %d), want zeros", s.TotalCommits, s.TotalStars, s.TotalForks)
	}
	if s.ContributionCalendar.Approximate {
		t.Error("primary calendar must not be approximate")
	}
	for i, w := range s.ContributionCalendar.Weeks {
		if len(w.Days) != wrapped.DaysPerWeek {
			t.Errorf("week %d has %d slots", i, len(w.Days))
		}
	}
}

func TestComputeWrappedFullPipeline(t *testing.T) {
	year := 2023
	repos := `[
		{"name":"anvil","stargazers_count":40,"forks_count":5,"watchers_count":2,
		 "pushed_at":"2023-09-01T00:00:00Z","updated_at":"2023-09-01T00:00:00Z"},
		{"name":"forked-rocket","fork":true,"stargazers_count":500,
		 "pushed_at":"2023-03-01T00:00:00Z","updated_at":"2023-03-01T00:00:00Z"},
		{"name":"dotfiles","stargazers_count":3,
		 "pushed_at":"2023-01-02T00:00:00Z","updated_at":"2023-01-02T00:00:00Z"}
	]`
	events := fmt.Sprintf(`[
		{"type":"PushEvent","created_at":"%d-04-03T10:00:00Z","payload":{"commits":[{"sha":"a"},{"sha":"b"}]}},
		{"type":"PushEvent","created_at":"%d-04-04T10:00:00Z","payload":{}},
		{"type":"WatchEvent","created_at":"%d-04-05T10:00:00Z","payload":{}}
	]`, year, year, year)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, repos)
	})
	mux.HandleFunc("/users/octocat/events/public", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, events)
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 6}`)
	})
	mux.HandleFunc("/repos/octocat/anvil/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Go": 9000, "Shell": 1000}`)
	})
	mux.HandleFunc("/repos/octocat/forked-rocket/languages", func(w http.ResponseWriter, r *http.Request) {
		// One failing language fetch must not abort the resolver.
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/repos/octocat/dotfiles/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Shell": 2000}`)
	})

	agg := mockUpstreams(t, mux, zeroYearHandler(year))
	s, err := agg.ComputeWrapped(context.Background(), "octocat", year)
	if err != nil {
		t.Fatal(err)
	}

	if len(s.TopRepositories) != 2 {
		t.Fatalf("topRepositories = %d entries, want 2 (fork excluded)", len(s.TopRepositories))
	}
	if s.TopRepositories[0].Name != "anvil" {
		t.Errorf("top repo = %q, want anvil", s.TopRepositories[0].Name)
	}
	if s.TotalStars != 543 {
		t.Errorf("totalStars = %d, want 543 (fork stars included)", s.TotalStars)
	}
	if s.TotalForks != 5 {
		t.Errorf("totalForks = %d, want 5", s.TotalForks)
	}
	if s.TotalCommits != 3 { // 2 listed + 1 defaulted
		t.Errorf("totalCommits = %d, want 3", s.TotalCommits)
	}
	if s.PullRequestsOpened != 6 || s.CodeReviews != 6 {
		t.Errorf("collaboration = %+v, want 6s", s.Collaboration)
	}

	if len(s.Languages) != 2 {
		t.Fatalf("languages = %v, want Go and Shell", s.Languages)
	}
	if s.Languages[0].Name != "Go" || s.Languages[0].Bytes != 9000 {
		t.Errorf("top language = %+v, want Go 9000", s.Languages[0])
	}
	if s.Languages[1].Bytes != 3000 {
		t.Errorf("Shell bytes = %d, want 3000 (merged across repos)", s.Languages[1].Bytes)
	}
}

func TestComputeWrappedFailsOnMissingUser(t *testing.T) {
	mux := http.NewServeMux() // every endpoint 404s
	agg := mockUpstreams(t, mux, zeroYearHandler(2023))

	_, err := agg.ComputeWrapped(context.Background(), "ghost", 2023)
	if err == nil {
		t.Fatal("expected aggregation failure")
	}
	var ae *AggregationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AggregationError, got %T: %v", err, err)
	}
	if !errors.Is(err, cg.ErrNotFound) {
		t.Errorf("cause should unwrap to ErrNotFound, got %v", ae.Err)
	}
}

func TestComputeWrappedDefaultsToCurrentYear(t *testing.T) {
	year := time.Now().Year()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/users/octocat/events/public", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 0}`)
	})

	agg := mockUpstreams(t, mux, zeroYearHandler(year))
	s, err := agg.ComputeWrapped(context.Background(), "octocat", 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Year != year {
		t.Errorf("year = %d, want current year %d", s.Year, year)
	}
}

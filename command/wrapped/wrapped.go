// Package cmdwrapped implements the wrapped subcommand: it computes the
// year-in-review snapshot for one account and renders it as a sequence of
// terminal slides, optionally dumping the raw snapshot as JSON.
package cmdwrapped

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/pterm/pterm"

	"github-wrapped/connectors/config"
	"github-wrapped/connectors/contributions"
	cg "github-wrapped/connectors/github"
	"github-wrapped/domain/wrapped"
	"github-wrapped/stats"
)

// Run executes the wrapped subcommand. Flags: -user (required), -year
// (default current), -out (optional JSON dump path).
func Run(args []string) error {
	fs := flag.NewFlagSet("wrapped", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	user := fs.String("user", "", "GitHub username (required)")
	year := fs.Int("year", 0, "Target year (default: current year)")
	out := fs.String("out", "", "Write the snapshot as JSON to this file (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		return fmt.Errorf("missing required -user")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		slog.Warn("wrapped.token.missing", "detail", "running unauthenticated, rate limits are much tighter")
	}

	httpc := &http.Client{Timeout: cfg.Timeout()}
	ghc := cg.New(httpc, token, cfg.GitHub.APIBaseURL)
	contrib := contributions.New(ghc, httpc, cfg.Contributions.APIBaseURL)
	agg := stats.NewAggregator(ghc, contrib)

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Computing wrapped for %s...", *user))
	snapshot, err := agg.ComputeWrapped(context.Background(), *user, *year)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Wrapped ready for %s (%d)", snapshot.User.Login, snapshot.Year))

	renderSlides(snapshot)

	if *out != "" {
		if err := writeJSON(*out, snapshot); err != nil {
			return err
		}
		pterm.Success.Printf("Snapshot saved to %s\n", *out)
	}
	return nil
}

func renderSlides(s *wrapped.Stats) {
	name := s.User.Name
	if name == "" {
		name = s.User.Login
	}

	pterm.DefaultSection.Printf("%s's %d Year in Review", name, s.Year)
	pterm.Info.Printf("   ├─ Followers: %d | Following: %d\n", s.User.Followers, s.User.Following)
	pterm.Info.Printf("   └─ Public repos: %d | Gists: %d\n", s.User.PublicRepos, s.User.PublicGists)

	pterm.DefaultSection.Println("Contributions")
	pterm.Info.Printf("   ├─ Total: %s (top %d%% of GitHub)\n",
		stats.FormatNumber(s.TotalContributions), 100-stats.ContributionPercentile(s.TotalContributions))
	pterm.Info.Printf("   ├─ Longest streak: %d days | Current streak: %d days\n", s.LongestStreak, s.CurrentStreak)
	pterm.Info.Printf("   ├─ Most productive: %ss, peak month %s\n", s.MostProductiveDay, s.MostProductiveMonth)
	if week, n, ok := stats.BusiestWeek(s.ContributionCalendar); ok {
		pterm.Info.Printf("   ├─ Busiest week: %s (%d contributions)\n", week, n)
	}
	pterm.Info.Printf("   └─ Average per active day: %d\n", stats.AveragePerActiveDay(s.ContributionCalendar))
	if s.ContributionCalendar.Approximate {
		pterm.Warning.Println("   Calendar rebuilt from the public event feed; older activity is undercounted.")
	}

	if len(s.Languages) > 0 {
		pterm.DefaultSection.Println("Languages")
		for i, l := range s.Languages {
			connector := "├─"
			if i == len(s.Languages)-1 {
				connector = "└─"
			}
			pterm.Info.Printf("   %s %s: %.1f%%\n", connector, l.Name, l.Percentage)
		}
	}

	if len(s.TopRepositories) > 0 {
		pterm.DefaultSection.Println("Top Repositories")
		for i, r := range s.TopRepositories {
			connector := "├─"
			if i == len(s.TopRepositories)-1 {
				connector = "└─"
			}
			pterm.Info.Printf("   %s %s ★%d ⑂%d\n", connector, r.Name, r.StargazersCount, r.ForksCount)
		}
	}

	pterm.DefaultSection.Println("Code Impact")
	pterm.Info.Printf("   ├─ Commits (estimated): %s\n", stats.FormatNumber(s.TotalCommits))
	pterm.Info.Printf("   └─ Stars: %s | Forks: %s\n",
		stats.FormatNumber(s.TotalStars), stats.FormatNumber(s.TotalForks))

	pterm.DefaultSection.Println("Collaboration")
	pterm.Info.Printf("   ├─ PRs opened: %d | merged: %d\n", s.PullRequestsOpened, s.PullRequestsMerged)
	pterm.Info.Printf("   ├─ Issues opened: %d | closed: %d\n", s.IssuesOpened, s.IssuesClosed)
	pterm.Info.Printf("   └─ Reviews given: %d\n", s.CodeReviews)

	pterm.DefaultSection.Println("Insights")
	for _, line := range stats.GenerateInsights(s) {
		pterm.Info.Printf("   • %s\n", line)
	}
}

func writeJSON(path string, s *wrapped.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

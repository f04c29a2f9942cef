// Package stats derives the year-in-review snapshot: it orchestrates the
// concurrent fetches and performs the pure computations over their combined
// results (streaks, productivity buckets, rankings, totals, insights).
package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"

	gh "github-wrapped/domain/github"
	"github-wrapped/domain/wrapped"
)

const (
	topRepoCount     = 5
	topLanguageCount = 10
	languageRepoCap  = 20
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Streaks computes the longest and current run of consecutive active days.
// The current streak counts backward from the last day and stops at the
// first inactive day.
func Streaks(cal wrapped.ContributionCalendar) (longest, current int) {
	days := cal.Days()

	run := 0
	for _, d := range days {
		if d.Count > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count == 0 {
			break
		}
		current++
	}
	return longest, current
}

// MostProductiveDay returns the weekday name with the highest summed count.
// The weekday is the day's column position within its week (Sunday first),
// and ties resolve to the lowest index.
func MostProductiveDay(cal wrapped.ContributionCalendar) string {
	var buckets [7]int
	for _, w := range cal.Weeks {
		for i, d := range w.Days {
			if !d.Placeholder() && i < len(buckets) {
				buckets[i] += d.Count
			}
		}
	}
	return dayNames[argMax(buckets[:])]
}

// MostProductiveMonth returns the month name with the highest summed count.
// Ties resolve to the earliest month.
func MostProductiveMonth(cal wrapped.ContributionCalendar) string {
	var buckets [12]int
	for _, d := range cal.Days() {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		buckets[int(t.Month())-1] += d.Count
	}
	return monthNames[argMax(buckets[:])]
}

func argMax(buckets []int) int {
	best := 0
	for i, v := range buckets {
		if v > buckets[best] {
			best = i
		}
	}
	return best
}

// EngagementScore ranks a repository for the top list: stars weigh once,
// forks twice, watchers once.
func EngagementScore(r gh.Repo) int {
	return r.StargazersCount + 2*r.ForksCount + r.WatchersCount
}

// TopRepositories ranks non-fork repositories by engagement score and
// returns the top n. Forks are excluded here but still count toward the
// star/fork totals.
func TopRepositories(repos []gh.Repo, n int) []gh.Repo {
	own := lo.Filter(repos, func(r gh.Repo, _ int) bool { return !r.Fork })
	sort.SliceStable(own, func(i, j int) bool {
		return EngagementScore(own[i]) > EngagementScore(own[j])
	})
	if len(own) > n {
		own = own[:n]
	}
	return own
}

// TotalStars sums stargazers across all collected repositories, forks
// included.
func TotalStars(repos []gh.Repo) int {
	return lo.SumBy(repos, func(r gh.Repo) int { return r.StargazersCount })
}

// TotalForks sums forks across all collected repositories, forks included.
func TotalForks(repos []gh.Repo) int {
	return lo.SumBy(repos, func(r gh.Repo) int { return r.ForksCount })
}

// EstimateCommits estimates the yearly commit count from push events: each
// push contributes its commit-list length, or one when the payload carries
// no list.
func EstimateCommits(events []gh.Event, year int) int {
	total := 0
	for _, ev := range events {
		if ev.Type != gh.PushEventType || ev.CreatedAt.Year() != year {
			continue
		}
		if n := len(ev.Payload.Commits); n > 0 {
			total += n
		} else {
			total++
		}
	}
	return total
}

// MergeLanguages folds per-repository byte breakdowns into a ranked
// percentage distribution, truncated to the top n. Percentages are shares
// of the merged total, so the truncated list may sum to less than 100; an
// empty merge yields zero percentages rather than a division error.
func MergeLanguages(perRepo []map[string]int64, n int) []wrapped.LanguageStat {
	bytes := map[string]int64{}
	for _, langs := range perRepo {
		for name, b := range langs {
			bytes[name] += b
		}
	}

	var total int64
	for _, b := range bytes {
		total += b
	}

	langs := make([]wrapped.LanguageStat, 0, len(bytes))
	for name, b := range bytes {
		pct := 0.0
		if total > 0 {
			pct = float64(b) / float64(total) * 100
		}
		langs = append(langs, wrapped.LanguageStat{
			Name:       name,
			Bytes:      b,
			Percentage: pct,
			Color:      wrapped.ColorForLanguage(name),
		})
	}
	sort.SliceStable(langs, func(i, j int) bool { return langs[i].Bytes > langs[j].Bytes })
	if len(langs) > n {
		langs = langs[:n]
	}
	return langs
}

// BusiestWeek finds the week with the highest summed count. Returns the
// date of that week's first real day; ok is false when no week has any
// contribution.
func BusiestWeek(cal wrapped.ContributionCalendar) (weekStart string, contributions int, ok bool) {
	for _, w := range cal.Weeks {
		sum := lo.SumBy(w.Days, func(d wrapped.ContributionDay) int { return d.Count })
		if sum <= contributions {
			continue
		}
		contributions = sum
		if first, found := lo.Find(w.Days, func(d wrapped.ContributionDay) bool { return !d.Placeholder() }); found {
			weekStart = first.Date
		}
	}
	return weekStart, contributions, weekStart != ""
}

// AveragePerActiveDay returns the rounded mean contribution count over days
// with at least one contribution.
func AveragePerActiveDay(cal wrapped.ContributionCalendar) int {
	active := lo.CountBy(cal.Days(), func(d wrapped.ContributionDay) bool { return d.Count > 0 })
	if active == 0 {
		return 0
	}
	return int(float64(cal.TotalContributions)/float64(active) + 0.5)
}

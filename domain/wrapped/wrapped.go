// Package wrapped holds the year-in-review domain model: the contribution
// calendar, language distribution and the final immutable statistics snapshot.
package wrapped

import (
	"time"

	gh "github-wrapped/domain/github"
)

// DaysPerWeek is the fixed width of a calendar week column (Sunday first).
const DaysPerWeek = 7

// ContributionDay is one calendar date with its contribution count and a
// 0-4 intensity level. Placeholder days (alignment padding) have an empty
// Date and a zero count.
type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Placeholder reports whether the day is alignment padding rather than a
// real calendar date.
func (d ContributionDay) Placeholder() bool {
	return d.Date == ""
}

// ContributionWeek is a fixed block of seven day slots.
type ContributionWeek struct {
	Days []ContributionDay `json:"days"`
}

// ContributionCalendar covers Jan 1 through Dec 31 of one year as ordered
// seven-day weeks. Approximate is set when the calendar was reconstructed
// from the public event feed, which only reaches back ~90 days.
type ContributionCalendar struct {
	TotalContributions int                `json:"totalContributions"`
	Weeks              []ContributionWeek `json:"weeks"`
	Approximate        bool               `json:"approximate,omitempty"`
}

// Days flattens the calendar to its real (dated) days in chronological order.
func (c ContributionCalendar) Days() []ContributionDay {
	var days []ContributionDay
	for _, w := range c.Weeks {
		for _, d := range w.Days {
			if !d.Placeholder() {
				days = append(days, d)
			}
		}
	}
	return days
}

// LevelForCount buckets a raw daily count into a 0-4 intensity level.
// Thresholds: 0; 1-3; 4-6; 7-9; 10 and above.
func LevelForCount(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 6:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// ClampLevel bounds a pre-bucketed level from an upstream source to the
// valid 0-4 range.
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 4 {
		return 4
	}
	return level
}

// LanguageStat is one language's share of the sampled byte total.
type LanguageStat struct {
	Name       string  `json:"name"`
	Bytes      int64   `json:"bytes"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// Collaboration holds the five authoritative yearly counts obtained from
// aggregate search queries. A zero value may mean "possibly incomplete"
// when the corresponding query failed, not "definitely zero".
type Collaboration struct {
	PullRequestsOpened int `json:"pullRequestsOpened"`
	PullRequestsMerged int `json:"pullRequestsMerged"`
	IssuesOpened       int `json:"issuesOpened"`
	IssuesClosed       int `json:"issuesClosed"`
	CodeReviews        int `json:"codeReviews"`
}

// Stats is the immutable year-in-review snapshot for one (username, year)
// pair. It is built once per request and never mutated afterwards.
type Stats struct {
	User                 gh.User              `json:"user"`
	Year                 int                  `json:"year"`
	TotalContributions   int                  `json:"totalContributions"`
	ContributionCalendar ContributionCalendar `json:"contributionCalendar"`
	LongestStreak        int                  `json:"longestStreak"`
	CurrentStreak        int                  `json:"currentStreak"`
	MostProductiveDay    string               `json:"mostProductiveDay"`
	MostProductiveMonth  string               `json:"mostProductiveMonth"`
	TopRepositories      []gh.Repo            `json:"topRepositories"`
	Languages            []LanguageStat       `json:"languages"`
	TotalStars           int                  `json:"totalStars"`
	TotalForks           int                  `json:"totalForks"`
	TotalCommits         int                  `json:"totalCommits"`
	Collaboration
}

// ActiveInYear reports whether a repository was pushed or updated within
// the target year. Repo collections are filtered with this before ranking
// and language mixing.
func ActiveInYear(r gh.Repo, year int) bool {
	return r.PushedAt.Year() == year || r.UpdatedAt.Year() == year
}

// YearStart returns midnight Jan 1 of the year in UTC.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns midnight Dec 31 of the year in UTC.
func YearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github-wrapped/domain/wrapped"
)

// GenerateInsights turns a finished snapshot into an ordered list of
// human-readable observations. Rule order is fixed; a rule whose trigger is
// absent simply contributes nothing.
func GenerateInsights(s *wrapped.Stats) []string {
	var insights []string

	switch {
	case s.TotalContributions > 1000:
		insights = append(insights, fmt.Sprintf(
			"You made %s contributions. That's more than most developers make in a year!",
			FormatNumber(s.TotalContributions)))
	case s.TotalContributions > 500:
		insights = append(insights, fmt.Sprintf(
			"%s contributions! You were busy this year.", FormatNumber(s.TotalContributions)))
	case s.TotalContributions > 100:
		insights = append(insights, fmt.Sprintf(
			"You made %s contributions this year.", FormatNumber(s.TotalContributions)))
	default:
		insights = append(insights, fmt.Sprintf(
			"%d contributions this year. Quality over quantity, right?", s.TotalContributions))
	}

	if s.LongestStreak > 30 {
		insights = append(insights, fmt.Sprintf(
			"Your %d-day streak shows serious dedication. Impressive!", s.LongestStreak))
	} else if s.LongestStreak > 7 {
		insights = append(insights, fmt.Sprintf(
			"A %d-day coding streak. Consistency is key!", s.LongestStreak))
	}

	insights = append(insights, fmt.Sprintf(
		"%ss were your most productive day. The code just flows better then.", s.MostProductiveDay))

	if len(s.Languages) > 0 {
		top := s.Languages[0]
		if top.Percentage > 50 {
			insights = append(insights, fmt.Sprintf(
				"%s dominated your year with %.0f%% of your code.", top.Name, top.Percentage))
		} else {
			names := lo.Map(s.Languages[:min(3, len(s.Languages))],
				func(l wrapped.LanguageStat, _ int) string { return l.Name })
			insights = append(insights, fmt.Sprintf(
				"You're a polyglot! %s were your top languages.", strings.Join(names, ", ")))
		}
	}

	if s.TotalStars > 100 {
		insights = append(insights, fmt.Sprintf(
			"%s stars across your repos. People love your work!", FormatNumber(s.TotalStars)))
	} else if s.TotalStars > 10 {
		insights = append(insights, fmt.Sprintf(
			"You collected %d stars this year. Keep building!", s.TotalStars))
	}

	if s.PullRequestsMerged > 0 && s.PullRequestsOpened > 0 {
		rate := float64(s.PullRequestsMerged) / float64(s.PullRequestsOpened) * 100
		insights = append(insights, fmt.Sprintf(
			"%.0f%% of your PRs got merged. Your code review game is strong.", rate))
	}

	if s.CodeReviews > 10 {
		insights = append(insights, fmt.Sprintf(
			"You reviewed code %d times. A true team player.", s.CodeReviews))
	}

	return insights
}

// FormatNumber shortens large counts for display: 950 stays "950", 1500
// becomes "1.5K", 2300000 becomes "2.3M".
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

// ContributionPercentile maps a yearly contribution total onto a rough
// percentile bucket. Boundaries are exclusive: exactly 1000 lands in the
// >500 tier.
func ContributionPercentile(total int) int {
	switch {
	case total > 2000:
		return 99
	case total > 1000:
		return 95
	case total > 500:
		return 85
	case total > 250:
		return 70
	case total > 100:
		return 50
	case total > 50:
		return 30
	default:
		return 10
	}
}

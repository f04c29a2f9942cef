// Package contributions obtains a day-by-day activity calendar for a target
// year. The primary source is a third-party pre-aggregated contribution API;
// when that fails for any reason the calendar is reconstructed from the
// public event feed, which only reaches back ~90 days, so fallback calendars
// are flagged approximate.
package contributions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	cg "github-wrapped/connectors/github"
	gh "github-wrapped/domain/github"
	"github-wrapped/domain/wrapped"
)

const defaultBaseURL = "https://github-contributions-api.jogruber.de"

// Client fetches contribution calendars. Use New to construct it.
type Client struct {
	c       *http.Client
	baseURL string
	gh      *cg.Client
}

// New builds a Client. ghc backs the event-feed fallback; a nil http.Client
// gets a 30s-timeout default; empty baseURL means the public aggregator.
func New(ghc *cg.Client, c *http.Client, baseURL string) *Client {
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{c: c, baseURL: baseURL, gh: ghc}
}

// aggregatorResponse is the flat day list of the pre-aggregated source.
type aggregatorResponse struct {
	Contributions []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
		Level int    `json:"level"`
	} `json:"contributions"`
}

// FetchCalendar returns the complete contribution calendar for a
// username/year. Any failure of the primary source triggers the event-feed
// fallback; only an unrecoverable event fetch fails the call.
func (cc *Client) FetchCalendar(ctx context.Context, username string, year int) (wrapped.ContributionCalendar, error) {
	slog.Info("phase.calendar.fetch.start", "user", username, "year", year)
	cal, err := cc.fetchAggregated(ctx, username, year)
	if err != nil {
		slog.Warn("phase.calendar.primary.failed", "user", username, "error", err)
		cal, err = cc.rebuildFromEvents(ctx, username, year)
		if err != nil {
			return wrapped.ContributionCalendar{}, err
		}
	}
	slog.Info("phase.calendar.fetch.done", "user", username,
		"total", cal.TotalContributions, "weeks", len(cal.Weeks), "approximate", cal.Approximate)
	return cal, nil
}

func (cc *Client) fetchAggregated(ctx context.Context, username string, year int) (wrapped.ContributionCalendar, error) {
	endpoint := fmt.Sprintf("%s/v4/%s?y=%d", cc.baseURL, url.PathEscape(username), year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return wrapped.ContributionCalendar{}, err
	}
	resp, err := cc.c.Do(req)
	if err != nil {
		return wrapped.ContributionCalendar{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return wrapped.ContributionCalendar{}, fmt.Errorf("contributions API returned %d", resp.StatusCode)
	}

	var data aggregatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return wrapped.ContributionCalendar{}, err
	}
	if len(data.Contributions) == 0 {
		return wrapped.ContributionCalendar{}, fmt.Errorf("contributions API returned no days for %d", year)
	}

	// Reshape the flat day list into fixed seven-day weeks in source order.
	// Levels arrive pre-bucketed and are only clamped to the valid range.
	var cal wrapped.ContributionCalendar
	week := wrapped.ContributionWeek{Days: make([]wrapped.ContributionDay, 0, wrapped.DaysPerWeek)}
	for _, day := range data.Contributions {
		week.Days = append(week.Days, wrapped.ContributionDay{
			Date:  day.Date,
			Count: day.Count,
			Level: wrapped.ClampLevel(day.Level),
		})
		cal.TotalContributions += day.Count
		if len(week.Days) == wrapped.DaysPerWeek {
			cal.Weeks = append(cal.Weeks, week)
			week = wrapped.ContributionWeek{Days: make([]wrapped.ContributionDay, 0, wrapped.DaysPerWeek)}
		}
	}
	if len(week.Days) > 0 {
		cal.Weeks = append(cal.Weeks, padWeek(week))
	}
	return cal, nil
}

// rebuildFromEvents reconstructs an approximate calendar from the public
// event feed: each event contributes exactly one count to its calendar day,
// regardless of payload size.
func (cc *Client) rebuildFromEvents(ctx context.Context, username string, year int) (wrapped.ContributionCalendar, error) {
	events, err := cc.gh.FetchEvents(ctx, username)
	if err != nil {
		return wrapped.ContributionCalendar{}, err
	}
	return BuildFromEvents(events, year), nil
}

// BuildFromEvents builds a full Jan 1 - Dec 31 week grid for the year from
// an event list. The grid is Sunday-first with leading placeholder days so
// the first real day lands on its weekday column, and the final week is
// padded to seven slots.
func BuildFromEvents(events []gh.Event, year int) wrapped.ContributionCalendar {
	perDay := map[string]int{}
	for _, ev := range events {
		if ev.CreatedAt.Year() != year {
			continue
		}
		perDay[ev.CreatedAt.UTC().Format("2006-01-02")]++
	}

	cal := wrapped.ContributionCalendar{Approximate: true}
	week := wrapped.ContributionWeek{Days: make([]wrapped.ContributionDay, 0, wrapped.DaysPerWeek)}

	start := wrapped.YearStart(year)
	for i := 0; i < int(start.Weekday()); i++ {
		week.Days = append(week.Days, wrapped.ContributionDay{})
	}

	end := wrapped.YearEnd(year)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		count := perDay[date]
		cal.TotalContributions += count
		week.Days = append(week.Days, wrapped.ContributionDay{
			Date:  date,
			Count: count,
			Level: wrapped.LevelForCount(count),
		})
		if len(week.Days) == wrapped.DaysPerWeek {
			cal.Weeks = append(cal.Weeks, week)
			week = wrapped.ContributionWeek{Days: make([]wrapped.ContributionDay, 0, wrapped.DaysPerWeek)}
		}
	}
	if len(week.Days) > 0 {
		cal.Weeks = append(cal.Weeks, padWeek(week))
	}
	return cal
}

// padWeek fills a trailing partial week with placeholder days so every week
// carries exactly seven slots.
func padWeek(w wrapped.ContributionWeek) wrapped.ContributionWeek {
	for len(w.Days) < wrapped.DaysPerWeek {
		w.Days = append(w.Days, wrapped.ContributionDay{})
	}
	return w
}

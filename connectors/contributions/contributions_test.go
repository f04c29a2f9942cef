package contributions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cg "github-wrapped/connectors/github"
	gh "github-wrapped/domain/github"
	"github-wrapped/domain/wrapped"
)

type calendarDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

func yearOfDays(year int, countFor func(t time.Time) int) []calendarDay {
	var days []calendarDay
	start := wrapped.YearStart(year)
	end := wrapped.YearEnd(year)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		c := countFor(d)
		days = append(days, calendarDay{
			Date:  d.Format("2006-01-02"),
			Count: c,
			Level: wrapped.LevelForCount(c),
		})
	}
	return days
}

func serveCalendar(t *testing.T, days []calendarDay) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"contributions": days})
	}))
}

func checkWeekShape(t *testing.T, cal wrapped.ContributionCalendar) {
	t.Helper()
	for i, w := range cal.Weeks {
		if len(w.Days) != wrapped.DaysPerWeek {
			t.Errorf("week %d has %d day slots, want %d", i, len(w.Days), wrapped.DaysPerWeek)
		}
	}
	sum := 0
	for _, d := range cal.Days() {
		sum += d.Count
		if d.Level < 0 || d.Level > 4 {
			t.Errorf("day %s has level %d outside 0-4", d.Date, d.Level)
		}
	}
	if sum != cal.TotalContributions {
		t.Errorf("day counts sum to %d, reported total %d", sum, cal.TotalContributions)
	}
}

func TestFetchCalendarPrimary(t *testing.T) {
	days := yearOfDays(2023, func(d time.Time) int {
		if d.Month() == time.March {
			return 5
		}
		return 0
	})
	// Pre-bucketed levels above 4 must be clamped, not re-bucketed.
	days[10].Count = 1
	days[10].Level = 9

	srv := serveCalendar(t, days)
	defer srv.Close()

	cc := New(nil, srv.Client(), srv.URL)
	cal, err := cc.FetchCalendar(context.Background(), "octocat", 2023)
	if err != nil {
		t.Fatal(err)
	}

	checkWeekShape(t, cal)
	if cal.Approximate {
		t.Error("primary-path calendar must not be flagged approximate")
	}
	if want := 31*5 + 1; cal.TotalContributions != want {
		t.Errorf("total = %d, want %d", cal.TotalContributions, want)
	}
	if got := cal.Days()[10].Level; got != 4 {
		t.Errorf("oversized level clamped to %d, want 4", got)
	}
	if len(cal.Days()) != 365 {
		t.Errorf("got %d real days, want 365", len(cal.Days()))
	}
}

func TestFetchCalendarFallsBackToEvents(t *testing.T) {
	events := []gh.Event{
		{Type: "PushEvent", CreatedAt: time.Date(2023, 7, 4, 10, 0, 0, 0, time.UTC)},
		{Type: "IssuesEvent", CreatedAt: time.Date(2023, 7, 4, 11, 0, 0, 0, time.UTC)},
		{Type: "PushEvent", CreatedAt: time.Date(2023, 7, 5, 9, 0, 0, 0, time.UTC)},
		// Wrong year, must be ignored.
		{Type: "PushEvent", CreatedAt: time.Date(2022, 7, 4, 9, 0, 0, 0, time.UTC)},
	}

	ghSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/octocat/events/public" {
			_ = json.NewEncoder(w).Encode(events)
			return
		}
		http.NotFound(w, r)
	}))
	defer ghSrv.Close()

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer primary.Close()

	ghc := cg.New(ghSrv.Client(), "", ghSrv.URL)
	cc := New(ghc, primary.Client(), primary.URL)

	cal, err := cc.FetchCalendar(context.Background(), "octocat", 2023)
	if err != nil {
		t.Fatal(err)
	}

	checkWeekShape(t, cal)
	if !cal.Approximate {
		t.Error("event-derived calendar must be flagged approximate")
	}
	if cal.TotalContributions != 3 {
		t.Errorf("total = %d, want 3 (one per event in the year)", cal.TotalContributions)
	}

	byDate := map[string]wrapped.ContributionDay{}
	for _, d := range cal.Days() {
		byDate[d.Date] = d
	}
	if d := byDate["2023-07-04"]; d.Count != 2 || d.Level != 1 {
		t.Errorf("2023-07-04 = %+v, want count 2 level 1", d)
	}
	if d := byDate["2023-07-05"]; d.Count != 1 || d.Level != 1 {
		t.Errorf("2023-07-05 = %+v, want count 1 level 1", d)
	}
}

func TestFetchCalendarPropagatesFallbackFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer broken.Close()

	ghc := cg.New(broken.Client(), "", broken.URL)
	cc := New(ghc, broken.Client(), broken.URL)

	if _, err := cc.FetchCalendar(context.Background(), "ghost", 2023); err == nil {
		t.Fatal("expected error when both primary and event fetch fail")
	}
}

func TestBuildFromEventsAlignment(t *testing.T) {
	// Jan 1 2021 was a Friday: five leading placeholders expected.
	cal := BuildFromEvents([]gh.Event{
		{Type: "PushEvent", CreatedAt: time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)},
	}, 2021)

	checkWeekShape(t, cal)

	first := cal.Weeks[0]
	for i := 0; i < 5; i++ {
		if !first.Days[i].Placeholder() {
			t.Errorf("slot %d of first week should be a placeholder", i)
		}
	}
	if first.Days[5].Date != "2021-01-01" {
		t.Errorf("first real day = %q, want 2021-01-01", first.Days[5].Date)
	}
	if first.Days[5].Count != 1 {
		t.Errorf("Jan 1 count = %d, want 1", first.Days[5].Count)
	}
	if len(cal.Days()) != 365 {
		t.Errorf("got %d real days, want 365", len(cal.Days()))
	}
}

func TestLevelBucketing(t *testing.T) {
	cases := []struct {
		count, level int
	}{
		{0, 0}, {1, 1}, {3, 1}, {4, 2}, {6, 2}, {7, 3}, {9, 3}, {10, 4}, {250, 4},
	}
	for _, tc := range cases {
		if got := wrapped.LevelForCount(tc.count); got != tc.level {
			t.Errorf("LevelForCount(%d) = %d, want %d", tc.count, got, tc.level)
		}
	}
	prev := 0
	for count := 0; count < 30; count++ {
		level := wrapped.LevelForCount(count)
		if level < prev {
			t.Fatalf("level decreased at count %d: %d -> %d", count, prev, level)
		}
		prev = level
	}
}

func TestBuildFromEventsLeapYear(t *testing.T) {
	cal := BuildFromEvents(nil, 2024)
	if got := len(cal.Days()); got != 366 {
		t.Errorf("got %d real days for a leap year, want 366", got)
	}
	checkWeekShape(t, cal)
}

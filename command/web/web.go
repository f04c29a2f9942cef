// Package cmdweb starts a small Echo server exposing the wrapped snapshot
// and its insights as JSON for a presentation front-end.
package cmdweb

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github-wrapped/connectors/config"
	"github-wrapped/connectors/contributions"
	cg "github-wrapped/connectors/github"
	"github-wrapped/domain/wrapped"
	"github-wrapped/stats"
)

// Run starts the web server.
//
// Usage:
//
//	github-wrapped web [-addr :8080]
//
// Endpoints:
//
//	GET /api/wrapped/:username?year=2023          -> full snapshot
//	GET /api/wrapped/:username/insights?year=2023 -> insight sentences
//
// Nothing is cached or persisted; every request recomputes the snapshot.
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "http listen address (host:port, default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if *addr == "" {
		*addr = cfg.Web.Addr
	}

	token := os.Getenv("GITHUB_TOKEN")
	httpc := &http.Client{Timeout: cfg.Timeout()}
	ghc := cg.New(httpc, token, cfg.GitHub.APIBaseURL)
	contrib := contributions.New(ghc, httpc, cfg.Contributions.APIBaseURL)
	agg := stats.NewAggregator(ghc, contrib)

	e := echo.New()
	e.HideBanner = true
	RegisterRoutes(e, agg)
	return e.Start(*addr)
}

// RegisterRoutes mounts the API on an Echo instance. Split out so tests can
// drive the handlers without binding a listener.
func RegisterRoutes(e *echo.Echo, agg *stats.Aggregator) {
	e.GET("/api/wrapped/:username", func(c echo.Context) error {
		snapshot, err := computeFromRequest(c, agg)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, snapshot)
	})

	e.GET("/api/wrapped/:username/insights", func(c echo.Context) error {
		snapshot, err := computeFromRequest(c, agg)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"username": snapshot.User.Login,
			"year":     snapshot.Year,
			"insights": stats.GenerateInsights(snapshot),
		})
	})
}

func computeFromRequest(c echo.Context, agg *stats.Aggregator) (*wrapped.Stats, error) {
	username := c.Param("username")
	year := 0
	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
		}
		year = parsed
	}
	return agg.ComputeWrapped(c.Request().Context(), username, year)
}

// writeError maps the connector error taxonomy onto HTTP statuses: the
// presentation layer only needs enough to show "not found" vs "try later".
func writeError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return err
	}

	status := http.StatusBadGateway
	detail := map[string]any{"error": err.Error()}

	var rl *cg.RateLimitError
	switch {
	case errors.Is(err, cg.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &rl):
		status = http.StatusTooManyRequests
		if !rl.Reset.IsZero() {
			detail["resetAt"] = rl.Reset
		}
	}
	return c.JSON(status, detail)
}

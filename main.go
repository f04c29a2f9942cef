package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	cmdweb "github-wrapped/command/web"
	cmdwrapped "github-wrapped/command/wrapped"
)

// github-wrapped computes a shareable "year in review" for a GitHub account:
// contribution calendar, streaks, top languages and repositories, and yearly
// collaboration counts.
//
// Usage:
//
//	GITHUB_TOKEN=ghp_xxx github-wrapped wrapped -user octocat [-year 2023] [-out stats.json]
//	github-wrapped web [-addr :8080]
//
// GITHUB_TOKEN is optional; without it the public API's unauthenticated rate
// limits apply. Set CONFIG_PATH to point to a YAML config file (default
// ./config.yml).
func main() {
	args := os.Args

	_ = godotenv.Load()

	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "wrapped":
			if err := cmdwrapped.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: github-wrapped wrapped -user <login> [-year <yyyy>] [-out <file>] | web [-addr :8080]\nENV: GITHUB_TOKEN (optional), CONFIG_PATH (default ./config.yml)")
	os.Exit(2)
}

package github

import "time"

// User represents a GitHub account profile (public fields only).
type User struct {
	Login           string    `json:"login"`
	ID              int64     `json:"id"`
	AvatarURL       string    `json:"avatar_url"`
	HTMLURL         string    `json:"html_url"`
	Name            string    `json:"name"`
	Company         string    `json:"company"`
	Blog            string    `json:"blog"`
	Location        string    `json:"location"`
	Email           string    `json:"email"`
	Bio             string    `json:"bio"`
	TwitterUsername string    `json:"twitter_username"`
	PublicRepos     int       `json:"public_repos"`
	PublicGists     int       `json:"public_gists"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	CreatedAt       time.Time `json:"created_at"`
}

// Repo represents a repository owned by (or forked to) an account.
type Repo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Fork            bool      `json:"fork"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"`
	Homepage        string    `json:"homepage"`
	Size            int       `json:"size"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	Language        string    `json:"language"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	DefaultBranch   string    `json:"default_branch"`
	Topics          []string  `json:"topics"`
}

// Event is one entry of a user's public event feed. Payload shape varies by
// event type; only the fields the pipeline reads are modeled, and their
// absence must not fail decoding.
type Event struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Actor     Actor        `json:"actor"`
	Repo      EventRepo    `json:"repo"`
	Payload   EventPayload `json:"payload"`
	Public    bool         `json:"public"`
	CreatedAt time.Time    `json:"created_at"`
}

type Actor struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type EventRepo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EventPayload models only the push payload fields used for the commit estimate.
type EventPayload struct {
	Commits []PushCommit `json:"commits"`
}

type PushCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// PushEventType is the event kind whose payload carries a commit list.
const PushEventType = "PushEvent"

// Package hosting reads repository activity from the GitHub REST API.
package hosting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.github.com"
	defaultRateLimit = 1.0
	defaultTimeout   = 15 * time.Second
)

// DecisionRecordDirs are searched in order for architecture decision records.
var DecisionRecordDirs = []string{"docs/adr", "docs/ADRs", "ADR", "adrs", ".adr", "docs"}

var adrName = regexp.MustCompile(`(?i)ADR.*\.md$`)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("hosting: not found")

type Config struct {
	BaseURL   string
	Owner     string
	Repo      string
	Token     string
	RateLimit float64 // requests per second
	Timeout   time.Duration
}

type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
	URL     string
}

type PullRequest struct {
	Number int
	Title  string
	Labels []string
	URL    string
}

type Entry struct {
	Name string
	Path string
	Type string
	URL  string
}

// Client is a read-only GitHub client. Requests are spaced by a limiter so
// a watch loop stays inside the unauthenticated quota.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("hosting: owner and repo are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}, nil
}

// RecentCommits returns the n newest commits on the default branch.
func (c *Client) RecentCommits(ctx context.Context, n int) ([]Commit, error) {
	var raw []struct {
		SHA     string `json:"sha"`
		HTMLURL string `json:"html_url"`
		Commit  struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := c.get(ctx, "commits", url.Values{"per_page": {fmt.Sprint(n)}}, &raw); err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(raw))
	for _, r := range raw {
		msg, _, _ := strings.Cut(r.Commit.Message, "\n")
		commits = append(commits, Commit{
			SHA:     r.SHA,
			Message: msg,
			Author:  r.Commit.Author.Name,
			Date:    r.Commit.Author.Date,
			URL:     r.HTMLURL,
		})
	}
	return commits, nil
}

// OpenPullRequests returns up to n open pull requests.
func (c *Client) OpenPullRequests(ctx context.Context, n int) ([]PullRequest, error) {
	var raw []struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		HTMLURL string `json:"html_url"`
		Labels  []struct {
			Name string `json:"name"`
		} `json:"labels"`
	}
	q := url.Values{"state": {"open"}, "per_page": {fmt.Sprint(n)}}
	if err := c.get(ctx, "pulls", q, &raw); err != nil {
		return nil, err
	}

	prs := make([]PullRequest, 0, len(raw))
	for _, r := range raw {
		labels := make([]string, 0, len(r.Labels))
		for _, l := range r.Labels {
			labels = append(labels, l.Name)
		}
		prs = append(prs, PullRequest{Number: r.Number, Title: r.Title, Labels: labels, URL: r.HTMLURL})
	}
	return prs, nil
}

// ListContents lists one repository directory.
func (c *Client) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	var raw []struct {
		Name    string `json:"name"`
		Path    string `json:"path"`
		Type    string `json:"type"`
		HTMLURL string `json:"html_url"`
	}
	if err := c.get(ctx, "contents/"+strings.Trim(dir, "/"), nil, &raw); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, Entry{Name: r.Name, Path: r.Path, Type: r.Type, URL: r.HTMLURL})
	}
	return entries, nil
}

// FindDecisionRecords returns the ADR markdown files of the first candidate
// directory that has any. Missing directories are skipped.
func (c *Client) FindDecisionRecords(ctx context.Context, candidates []string) ([]Entry, error) {
	if len(candidates) == 0 {
		candidates = DecisionRecordDirs
	}
	for _, dir := range candidates {
		entries, err := c.ListContents(ctx, dir)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var adrs []Entry
		for _, e := range entries {
			if adrName.MatchString(e.Name) {
				adrs = append(adrs, e)
			}
		}
		if len(adrs) > 0 {
			sort.Slice(adrs, func(i, j int) bool { return adrs[i].Name < adrs[j].Name })
			return adrs, nil
		}
	}
	return []Entry{}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/repos/%s/%s/%s", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, path)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("github %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

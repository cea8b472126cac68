package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/hosting"
	"github.com/everlightos/federation/internal/jobs"
	"github.com/everlightos/federation/internal/logging"
)

const (
	defaultFeedOwner = "ethanrosswomack"
	defaultFeedRepo  = "everlightos"
)

type feedSource interface {
	RecentCommits(ctx context.Context, n int) ([]hosting.Commit, error)
	OpenPullRequests(ctx context.Context, n int) ([]hosting.PullRequest, error)
	FindDecisionRecords(ctx context.Context, candidates []string) ([]hosting.Entry, error)
}

type feedSnapshot struct {
	Commits         []hosting.Commit      `json:"commits"`
	PullRequests    []hosting.PullRequest `json:"pull_requests"`
	DecisionRecords []hosting.Entry       `json:"decision_records"`
}

// FeedCmd creates the feed command.
func FeedCmd() *cobra.Command {
	var (
		owner    string
		repo     string
		baseURL  string
		limit    int
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show recent repository activity",
		Long:  "Prints recent commits, open pull requests and architecture decision records from GitHub.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}

			src, err := hosting.New(hosting.Config{
				BaseURL: baseURL,
				Owner:   owner,
				Repo:    repo,
				Token:   os.Getenv("GITHUB_TOKEN"),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			asJSON := outputJSON(cmd)

			if !watch {
				return printFeed(cmd.Context(), out, src, limit, asJSON)
			}

			logger, err := logging.New(false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := jobs.NewWorker(jobs.TaskFunc(func(ctx context.Context) error {
				if !asJSON {
					fmt.Fprintln(out, color.New(color.Faint).Sprintf("-- %s --", time.Now().Format(time.Kitchen)))
				}
				return printFeed(ctx, out, src, limit, asJSON)
			}), interval, jobs.RunImmediately(), jobs.WithLogger(logger))
			w.Start(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", defaultFeedOwner, "Repository owner")
	cmd.Flags().StringVar(&repo, "repo", defaultFeedRepo, "Repository name")
	cmd.Flags().StringVar(&baseURL, "github-url", hosting.DefaultBaseURL, "GitHub API base URL")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of commits and pull requests to show")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "Refresh interval for --watch")

	return cmd
}

func loadFeed(ctx context.Context, src feedSource, limit int) (feedSnapshot, error) {
	var snap feedSnapshot
	var err error

	if snap.Commits, err = src.RecentCommits(ctx, limit); err != nil {
		return snap, fmt.Errorf("failed to load commits: %w", err)
	}
	if snap.PullRequests, err = src.OpenPullRequests(ctx, limit); err != nil {
		return snap, fmt.Errorf("failed to load pull requests: %w", err)
	}
	if snap.DecisionRecords, err = src.FindDecisionRecords(ctx, hosting.DecisionRecordDirs); err != nil {
		return snap, fmt.Errorf("failed to load decision records: %w", err)
	}
	return snap, nil
}

func printFeed(ctx context.Context, w io.Writer, src feedSource, limit int, asJSON bool) error {
	snap, err := loadFeed(ctx, src, limit)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	heading := color.New(color.Bold)

	heading.Fprintln(w, "Recent commits")
	if len(snap.Commits) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, c := range snap.Commits {
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		fmt.Fprintf(w, "  %s %s %s\n", color.YellowString("%s", sha), c.Message,
			color.New(color.Faint).Sprintf("(%s, %s)", c.Author, c.Date.Format("2006-01-02")))
	}

	heading.Fprintln(w, "\nOpen pull requests")
	if len(snap.PullRequests) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, pr := range snap.PullRequests {
		line := fmt.Sprintf("  #%d %s", pr.Number, pr.Title)
		if len(pr.Labels) > 0 {
			line += " " + color.CyanString("[%s]", strings.Join(pr.Labels, ", "))
		}
		fmt.Fprintln(w, line)
	}

	heading.Fprintln(w, "\nDecision records")
	if len(snap.DecisionRecords) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, e := range snap.DecisionRecords {
		fmt.Fprintf(w, "  %s  %s\n", e.Name, color.New(color.Faint).Sprint(e.Path))
	}
	return nil
}

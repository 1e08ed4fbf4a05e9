package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jkarhu/packtrack/internal/e2etest"
	"github.com/jkarhu/packtrack/internal/logging"
	"github.com/jkarhu/packtrack/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	testTimeout        = 10 * time.Second
	sweepIterations    = 20
	maxConcurrentPages = 5
)

// TestLogFlow drives the main user journey: log a workout, see it on the
// dashboard and in the list, then delete it.
func TestLogFlow(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	doc, err := client.GetDoc(ctx, "/log")
	if err != nil {
		return fmt.Errorf("get log page: %w", err)
	}

	doc, err = client.SubmitForm(ctx, doc, "/log", map[string]string{
		"Date":     time.Now().UTC().Format(time.DateOnly),
		"Type":     "incline",
		"Duration": "60",
		"Distance": "2",
		"Incline":  "10",
		"Pack":     "20",
		"RPE":      "6",
		"Notes":    "smoke test session",
	})
	if err != nil {
		return fmt.Errorf("submit workout: %w", err)
	}

	if _, err = client.GetDoc(ctx, "/"); err != nil {
		return fmt.Errorf("get dashboard: %w", err)
	}

	deleteForm := doc.Find("form[action$='/delete']").First()
	action, exists := deleteForm.Attr("action")
	if !exists {
		return fmt.Errorf("delete form not found on workouts page")
	}
	if _, err = client.SubmitForm(ctx, doc, action, nil); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	return nil
}

// SweepPages fetches every page concurrently to shake out races and slow
// responses under parallel load.
func SweepPages(ctx context.Context, url string, logger *slog.Logger) error {
	pages := []string{"/", "/log", "/workouts", "/phases", "/api/healthy"}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)

	for range sweepIterations {
		for _, page := range pages {
			g.Go(func() error {
				client, err := e2etest.NewClient(url)
				if err != nil {
					return fmt.Errorf("create sweep client: %w", err)
				}
				resp, err := client.Get(ctx, page)
				if err != nil {
					return fmt.Errorf("get %s: %w", page, err)
				}
				defer func() {
					_ = resp.Body.Close()
				}()
				if resp.StatusCode != http.StatusOK {
					return fmt.Errorf("get %s: unexpected status code: %d", page, resp.StatusCode)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("page sweep: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "page sweep completed",
		slog.Int("requests", sweepIterations*len(pages)))
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = TestLogFlow(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing log flow", slog.Any("error", err))
		os.Exit(1)
	}
	if err = SweepPages(ctx, url, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error sweeping pages", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}

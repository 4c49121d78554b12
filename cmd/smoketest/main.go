package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Wossito/gym-ai/internal/e2etest"
	"github.com/Wossito/gym-ai/internal/logging"
	"github.com/Wossito/gym-ai/internal/testhelpers"
)

// testRoutineCycle runs one user through the whole flow: create a profile,
// generate a routine and rate it.
func testRoutineCycle(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.GetDoc(ctx, "/profile")
	if err != nil {
		return fmt.Errorf("get profile page: %w", err)
	}
	if doc, err = client.SubmitForm(ctx, doc, "/profile", map[string]string{
		"Name":                    "Smoke Tester",
		"Age":                     "32",
		"Weight (kg)":             "70",
		"Height (m)":              "1.75",
		"Experience level":        "beginner",
		"Training goal":           "endurance",
		"Training days per week":  "3",
		"Limitations or injuries": "",
	}); err != nil {
		return fmt.Errorf("submit profile: %w", err)
	}

	if doc, err = client.SubmitForm(ctx, doc, "/routines", map[string]string{}); err != nil {
		return fmt.Errorf("generate routine: %w", err)
	}

	feedbackAction, exists := doc.Find("form[action$='/feedback']").Attr("action")
	if !exists {
		return fmt.Errorf("no feedback form on routine page %s", doc.Url)
	}
	if doc, err = client.SubmitForm(ctx, doc, feedbackAction, map[string]string{
		"Satisfaction": "4",
		"Comments":     "smoke test run",
	}); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	if !strings.Contains(doc.Find("h1").Text(), "Thanks") {
		return fmt.Errorf("unexpected feedback page heading %q", doc.Find("h1").Text())
	}

	var statsDoc *goquery.Document
	if statsDoc, err = client.GetDoc(ctx, "/statistics"); err != nil {
		return fmt.Errorf("get statistics page: %w", err)
	}
	if statsDoc.Find("table").Length() == 0 {
		return fmt.Errorf("no statistics table on %s", statsDoc.Url)
	}

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
	if err = testRoutineCycle(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing routine cycle", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Wossito/gym-ai/internal/e2etest"
	"github.com/Wossito/gym-ai/internal/logging"
	"github.com/Wossito/gym-ai/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	numUsers                = 10
	cyclesPerUser           = 5
	maxConcurrentSetups     = 10
	maxConcurrentOperations = 20
	setupTimeout            = 30 * time.Second
	scenarioTimeout         = 30 * time.Second
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

var (
	levels = []string{"beginner", "intermediate", "advanced"}
	goals  = []string{"lose_weight", "gain_mass", "endurance", "strength"}
)

// simulatedUser holds a client with its own session cookie and the profile
// values it submitted.
type simulatedUser struct {
	client *e2etest.Client
	name   string
}

// setupUser creates a fresh session and submits a randomized profile so the
// engine sees a varied population.
func setupUser(ctx context.Context, url string, userIndex int, rng *rand.Rand) (*simulatedUser, error) {
	client, err := e2etest.NewClient(url)
	if err != nil {
		return nil, fmt.Errorf("creating client for user %d: %w", userIndex, err)
	}

	doc, err := client.GetDoc(ctx, "/profile")
	if err != nil {
		return nil, fmt.Errorf("get profile page for user %d: %w", userIndex, err)
	}

	name := fmt.Sprintf("Load Tester %d", userIndex)
	if _, err = client.SubmitForm(ctx, doc, "/profile", map[string]string{
		"Name":                    name,
		"Age":                     strconv.Itoa(20 + rng.IntN(40)),
		"Weight (kg)":             strconv.Itoa(55 + rng.IntN(50)),
		"Height (m)":              fmt.Sprintf("1.%d", 55+rng.IntN(40)),
		"Experience level":        levels[rng.IntN(len(levels))],
		"Training goal":           goals[rng.IntN(len(goals))],
		"Training days per week":  strconv.Itoa(2 + rng.IntN(6)),
		"Limitations or injuries": "",
	}); err != nil {
		return nil, fmt.Errorf("submit profile for user %d: %w", userIndex, err)
	}

	return &simulatedUser{client: client, name: name}, nil
}

// setupUsers registers all simulated users concurrently.
func setupUsers(ctx context.Context, url string, logger *slog.Logger) ([]*simulatedUser, error) {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting user setup", slog.Int("num_users", numUsers))

	users := make([]*simulatedUser, numUsers)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSetups)

	for i := range numUsers {
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(ctx, setupTimeout)
			defer cancel()

			rng := rand.New(rand.NewPCG(uint64(i), uint64(time.Now().UnixNano()))) //nolint:gosec // simulation only
			user, err := setupUser(userCtx, url, i, rng)
			if err != nil {
				return err
			}
			users[i] = user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user setup: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "All users set up", slog.Int("total_users", len(users)))
	return users, nil
}

// routineScenario generates a routine, opens it and submits feedback. Ratings
// skew positive so the engine accumulates successful patterns under load.
func routineScenario(ctx context.Context, user *simulatedUser, rng *rand.Rand) error {
	client := user.client

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return fmt.Errorf("get home page: %w", err)
	}
	if doc, err = client.SubmitForm(ctx, doc, "/routines", map[string]string{}); err != nil {
		return fmt.Errorf("generate routine: %w", err)
	}

	feedbackAction, exists := doc.Find("form[action$='/feedback']").Attr("action")
	if !exists {
		return fmt.Errorf("no feedback form on routine page %s", doc.Url)
	}
	satisfaction := 3 + rng.IntN(3)
	if _, err = client.SubmitForm(ctx, doc, feedbackAction, map[string]string{
		"Satisfaction": strconv.Itoa(satisfaction),
	}); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}

	// Fetching the statistics page is a common follow-up after rating.
	var statsDoc *goquery.Document
	if statsDoc, err = client.GetDoc(ctx, "/statistics"); err != nil {
		return fmt.Errorf("get statistics page: %w", err)
	}
	if statsDoc.Find("table").Length() == 0 {
		return fmt.Errorf("no statistics table on %s", statsDoc.Url)
	}

	return nil
}

// runLoadTest drives every user through repeated generate-and-rate cycles.
func runLoadTest(ctx context.Context, users []*simulatedUser, logger *slog.Logger) error {
	totalScenarios := len(users) * cyclesPerUser
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test",
		slog.Int("num_users", len(users)),
		slog.Int("cycles_per_user", cyclesPerUser))

	var successCount, failureCount int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i, user := range users {
		// One goroutine per user keeps each session's cycles sequential.
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(i), uint64(time.Now().UnixNano()))) //nolint:gosec // simulation only
			for range cyclesPerUser {
				scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
				err := routineScenario(scenarioCtx, user, rng)
				cancel()
				if err != nil {
					atomic.AddInt64(&failureCount, 1)
					// Individual failures are logged but never stop the run.
					logger.LogAttrs(ctx, slog.LevelWarn, "Scenario failed",
						slog.String("user", user.name),
						slog.Any("error", err))
					continue
				}
				atomic.AddInt64(&successCount, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test: %w", err)
	}

	successRate := float64(successCount) / float64(totalScenarios) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount),
		slog.Int64("failed", failureCount),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% below threshold", successRate)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client, err := e2etest.NewClient(url)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	users, err := setupUsers(ctx, url, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to set up users", slog.Any("error", err))
		os.Exit(1)
	}

	if err = runLoadTest(ctx, users, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test successful 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("users_tested", len(users)))
}

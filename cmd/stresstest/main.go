package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/myrjola/intervalplan/internal/e2etest"
	"github.com/myrjola/intervalplan/internal/logging"
	"github.com/myrjola/intervalplan/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	numScenarios            = 200
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
	maxDurationMinutes      = 30
)

//nolint:gochecknoglobals // fixed questionnaire answers to pick from.
var (
	goals        = []string{"cardio", "strength", "core", "mobility"}
	equipmentSet = [][]string{{"bodyweight"}, {"dumbbell"}, {"bodyweight", "dumbbell"}, {"kettlebell"}, {"resistance band"}}
	difficulties = []string{"beginner", "intermediate", "advanced"}
)

type planResponse struct {
	Tier  string `json:"tier"`
	Items []struct {
		Kind     string `json:"kind"`
		Exercise *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"exercise"`
	} `json:"items"`
}

// tierCounts tallies which fallback tier served each plan.
type tierCounts struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *tierCounts) add(tier string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[tier]++
}

func randomPreferences(rng *rand.Rand) map[string]any {
	return map[string]any{
		"goal":            goals[rng.IntN(len(goals))],
		"equipment":       equipmentSet[rng.IntN(len(equipmentSet))],
		"durationMinutes": 1 + rng.IntN(maxDurationMinutes),
		"difficulty":      difficulties[rng.IntN(len(difficulties))],
	}
}

// PlanScenario generates a plan and opens the instructions of its first exercise, like a user starting a workout.
func PlanScenario(ctx context.Context, client *e2etest.Client, prefs map[string]any) (string, error) {
	resp, err := client.PostJSON(ctx, "/api/plans", prefs)
	if err != nil {
		return "", fmt.Errorf("post plan: %w", err)
	}
	var plan planResponse
	status, err := e2etest.DecodeJSON(resp, &plan)
	if err != nil {
		return "", fmt.Errorf("decode plan: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("unexpected plan status %d", status)
	}
	if len(plan.Items) == 0 || plan.Items[0].Exercise == nil {
		return "", errors.New("plan does not start with an exercise")
	}

	first := plan.Items[0].Exercise
	doc, err := client.GetDoc(ctx, "/exercises/"+first.ID)
	if err != nil {
		return "", fmt.Errorf("get exercise page: %w", err)
	}
	if got := strings.TrimSpace(doc.Find("h1").First().Text()); got != first.Name {
		return "", fmt.Errorf("exercise page shows %q, want %q", got, first.Name)
	}
	return plan.Tier, nil
}

// RunLoadTest runs numScenarios plan scenarios with bounded concurrency.
func RunLoadTest(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_scenarios", numScenarios))

	var (
		successCount, failureCount atomic.Int64
		tiers                      = tierCounts{mu: sync.Mutex{}, counts: map[string]int{}}
		seed                       = uint64(time.Now().UnixNano()) //nolint:gosec // load test randomness.
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i := range numScenarios {
		prefs := randomPreferences(rand.New(rand.NewPCG(seed, uint64(i)))) //nolint:gosec // load test randomness.
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			tier, err := PlanScenario(scenarioCtx, client, prefs)
			if err != nil {
				failureCount.Add(1)
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.Int("scenario", i), slog.Any("preferences", prefs), slog.Any("error", err))
				return nil
			}
			successCount.Add(1)
			tiers.add(tier)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / float64(numScenarios) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate),
		slog.Any("tiers", tiers.counts))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
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

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err := RunLoadTest(ctx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)))
}

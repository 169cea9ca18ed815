package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/intervalplan/internal/e2etest"
	"github.com/myrjola/intervalplan/internal/logging"
	"github.com/myrjola/intervalplan/internal/testhelpers"
)

type planResponse struct {
	Tier  string `json:"tier"`
	Items []struct {
		Kind string `json:"kind"`
	} `json:"items"`
}

// TestPlan requests a short bodyweight plan, which every deployment must be able to produce.
func TestPlan(ctx context.Context, client *e2etest.Client) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second) //nolint:mnd // plan generation may wait on suggestions.
	defer cancel()

	resp, err := client.PostJSON(ctx, "/api/plans", map[string]any{
		"goal":            "cardio",
		"equipment":       []string{"bodyweight"},
		"durationMinutes": 5, //nolint:mnd // 5 minutes
		"difficulty":      "beginner",
	})
	if err != nil {
		return "", fmt.Errorf("post plan: %w", err)
	}
	var plan planResponse
	status, err := e2etest.DecodeJSON(resp, &plan)
	if err != nil {
		return "", fmt.Errorf("decode plan: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", status)
	}
	if len(plan.Items) == 0 || plan.Items[0].Kind != "exercise" {
		return "", fmt.Errorf("malformed plan from tier %s", plan.Tier)
	}
	return plan.Tier, nil
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
		err      error
		tier     string
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if tier, err = TestPlan(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing plan generation", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌",
		slog.String("tier", tier), slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}

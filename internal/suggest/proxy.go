package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/myrjola/intervalplan/internal/workout"
)

// maxResponseBytes bounds how much of a suggestion response is read.
const maxResponseBytes = 1 << 20

// ProxyClient asks the trusted edge proxy for suggestions. It implements [workout.Suggester].
type ProxyClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewProxyClient creates a client posting to url. The deadline of each call comes from its context.
func NewProxyClient(url string, client *http.Client, logger *slog.Logger) *ProxyClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyClient{url: url, client: client, logger: logger}
}

// Suggest posts the eligible exercises and preferences in a single request without retries.
//
// A JSON object body must carry success true and the selected ids. Any other body, including a JSON string, is treated
// as model output and searched for ids with [ParseIDs].
func (p *ProxyClient) Suggest(ctx context.Context, eligible []workout.Exercise, prefs workout.Preferences) ([]string, error) {
	body, err := json.Marshal(NewProxyRequest(eligible, prefs))
	if err != nil {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError, fmt.Errorf("marshal request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError, fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError, fmt.Errorf("post suggestion: %w", err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "close suggestion response", slog.Any("error", closeErr))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError,
			fmt.Errorf("proxy responded %d: %.200s", resp.StatusCode, raw))
	}

	ids, err := decodeProxyResponse(raw)
	if err != nil {
		return nil, err
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "received suggestion", slog.Int("ids", len(ids)))
	return Validate(ids, eligible)
}

func decodeProxyResponse(raw []byte) ([]string, error) {
	var (
		response ProxyResponse
		text     string
		trimmed  = bytes.TrimSpace(raw)
	)
	if bytes.HasPrefix(trimmed, []byte(`"`)) && json.Unmarshal(trimmed, &text) == nil {
		return ParseIDs(text)
	}
	if bytes.HasPrefix(trimmed, []byte("{")) && json.Unmarshal(trimmed, &response) == nil {
		switch {
		case !response.Success:
			return nil, workout.NewSuggestionError(workout.SuggestionTransportError,
				fmt.Errorf("proxy reported failure: %s", response.Error))
		case len(response.SelectedExerciseIDs) == 0:
			return nil, workout.NewSuggestionError(workout.SuggestionParseError,
				errors.New("proxy response without selected exercise ids"))
		}
		return response.SelectedExerciseIDs, nil
	}
	return ParseIDs(string(raw))
}

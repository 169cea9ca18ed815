package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/intervalplan/internal/e2etest"
	"github.com/myrjola/intervalplan/internal/suggest"
	"github.com/myrjola/intervalplan/internal/testhelpers"
	"github.com/myrjola/intervalplan/internal/workout"
)

var (
	suggestionExercises = []workout.Exercise{
		{ID: "bd4e12be-2782-5317-8849-68bc8396340a", Name: "Jumping Jacks", DurationSeconds: 45, Tags: []string{"equipment:bodyweight"}},
		{ID: "cd587f98-9ebd-5750-ba50-c7610a5439fa", Name: "Bodyweight Squat", DurationSeconds: 45, Tags: nil},
		{ID: "cbf2dc8a-3504-5f06-9a35-031a2173745a", Name: "Glute Bridge", DurationSeconds: 40, Tags: nil},
		{ID: "8cb81553-6cbe-56df-abef-318b17fba608", Name: "Plank", DurationSeconds: 30, Tags: nil},
	}
	suggestionPrefs = workout.Preferences{
		Goal:            "cardio",
		Equipment:       []workout.Equipment{workout.EquipmentBodyweight},
		DurationMinutes: 5,
		Difficulty:      workout.DifficultyBeginner,
		Language:        "en",
	}
)

// newFakeOpenAI answers every chat completion with content.
func newFakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		encoded, err := json.Marshal(content)
		if err != nil {
			t.Errorf("marshal content: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %s}}]
		}`, encoded)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postSuggestion(t *testing.T, server *e2etest.Server, body any) (int, suggest.ProxyResponse) {
	t.Helper()
	resp, err := server.Client().PostJSON(t.Context(), "/api/suggestions", body)
	if err != nil {
		t.Fatalf("Failed to post suggestion: %v", err)
	}
	var got suggest.ProxyResponse
	status, err := e2etest.DecodeJSON(resp, &got)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return status, got
}

func Test_application_suggestionsPOST_disabled(t *testing.T) {
	server := startServer(t, testLookupEnv)

	status, got := postSuggestion(t, server, suggest.NewProxyRequest(suggestionExercises, suggestionPrefs))
	if status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", status)
	}
	if got.Success || got.Error == "" {
		t.Errorf("Expected a failure response, got %+v", got)
	}
}

func Test_application_suggestionsPOST(t *testing.T) {
	upstream := newFakeOpenAI(t, "Here you go:\n```json\n"+
		`["8cb81553-6cbe-56df-abef-318b17fba608", "BD4E12BE-2782-5317-8849-68BC8396340A", `+
		`"cbf2dc8a-3504-5f06-9a35-031a2173745a", "not-in-the-list"]`+"\n```")
	server := startServer(t, lookupEnvWith(map[string]string{
		"INTERVALPLAN_PROXY_PROVIDER_API_KEY":  "test-key",
		"INTERVALPLAN_PROXY_PROVIDER_BASE_URL": upstream.URL + "/v1/",
	}))
	want := []string{
		"8cb81553-6cbe-56df-abef-318b17fba608",
		"bd4e12be-2782-5317-8849-68bc8396340a",
		"cbf2dc8a-3504-5f06-9a35-031a2173745a",
	}

	t.Run("endpoint", func(t *testing.T) {
		status, got := postSuggestion(t, server, suggest.NewProxyRequest(suggestionExercises, suggestionPrefs))
		if status != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", status)
		}
		if !got.Success {
			t.Errorf("Expected success, got %+v", got)
		}
		if diff := cmp.Diff(want, got.SelectedExerciseIDs); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("proxy client", func(t *testing.T) {
		client := suggest.NewProxyClient(server.URL()+"/api/suggestions", nil, testhelpers.NewLogger(testhelpers.NewWriter(t)))
		got, err := client.Suggest(t.Context(), suggestionExercises, suggestionPrefs)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid request", func(t *testing.T) {
		req := suggest.NewProxyRequest(suggestionExercises, suggestionPrefs)
		req.Preferences.Difficulty = "elite"
		status, _ := postSuggestion(t, server, req)
		if status != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", status)
		}
	})
}

func Test_application_suggestionsPOST_providerFailure(t *testing.T) {
	upstream := newFakeOpenAI(t, "I would rather not pick anything today.")
	server := startServer(t, lookupEnvWith(map[string]string{
		"INTERVALPLAN_PROXY_PROVIDER_API_KEY":  "test-key",
		"INTERVALPLAN_PROXY_PROVIDER_BASE_URL": upstream.URL + "/v1/",
	}))

	status, got := postSuggestion(t, server, suggest.NewProxyRequest(suggestionExercises, suggestionPrefs))
	if status != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", status)
	}
	if got.Success {
		t.Errorf("Expected failure, got %+v", got)
	}
}

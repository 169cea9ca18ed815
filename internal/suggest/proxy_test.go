package suggest_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/intervalplan/internal/suggest"
	"github.com/myrjola/intervalplan/internal/testhelpers"
	"github.com/myrjola/intervalplan/internal/workout"
)

var eligible = []workout.Exercise{
	{
		ID: "id1", Name: "Jumping Jacks", InstructionsMarkdown: "Jump.", MediaURL: "", DurationSeconds: 45,
		Tags: []string{"equipment:bodyweight", "difficulty:beginner"},
	},
	{
		ID: "id2", Name: "Plank", InstructionsMarkdown: "Hold.", MediaURL: "", DurationSeconds: 30,
		Tags: []string{"equipment:bodyweight", "difficulty:beginner"},
	},
	{
		ID: "id3", Name: "Glute Bridge", InstructionsMarkdown: "Lift.", MediaURL: "", DurationSeconds: 40,
		Tags: []string{"equipment:bodyweight", "difficulty:beginner"},
	},
}

var prefs = workout.Preferences{
	Goal:            "cardio",
	Equipment:       []workout.Equipment{workout.EquipmentBodyweight},
	DurationMinutes: 5,
	Difficulty:      workout.DifficultyBeginner,
	Language:        "fi",
}

func TestProxyClient_Suggest(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       []string
		wantReason workout.SuggestionFailure
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"success":true,"selectedExerciseIds":["id3","id1","id2"]}`,
			want:   []string{"id3", "id1", "id2"},
		},
		{
			name:   "array inside prose",
			status: http.StatusOK,
			body:   `"Sure! [\"id1\",\"id2\",\"id3\"] enjoy!"`,
			want:   []string{"id1", "id2", "id3"},
		},
		{
			name:   "plain text body",
			status: http.StatusOK,
			body:   `Sure! ["id1","id2","id3"] enjoy!`,
			want:   []string{"id1", "id2", "id3"},
		},
		{
			name:       "unknown id leaves too few",
			status:     http.StatusOK,
			body:       `{"success":true,"selectedExerciseIds":["x","id1","id2"]}`,
			wantReason: workout.SuggestionInsufficient,
		},
		{
			name:       "reported failure",
			status:     http.StatusOK,
			body:       `{"success":false,"error":"quota exceeded"}`,
			wantReason: workout.SuggestionTransportError,
		},
		{
			name:       "success without ids",
			status:     http.StatusOK,
			body:       `{"success":true}`,
			wantReason: workout.SuggestionParseError,
		},
		{
			name:       "server error",
			status:     http.StatusBadGateway,
			body:       `{"success":true,"selectedExerciseIds":["id1","id2","id3"]}`,
			wantReason: workout.SuggestionTransportError,
		},
		{
			name:       "garbage",
			status:     http.StatusOK,
			body:       `<html>maintenance</html>`,
			wantReason: workout.SuggestionParseError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got suggest.ProxyRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				body, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(body, &got); err != nil {
					t.Errorf("decode request: %v", err)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			client := suggest.NewProxyClient(srv.URL, srv.Client(), testhelpers.NewLogger(testhelpers.NewWriter(t)))
			ids, err := client.Suggest(t.Context(), eligible, prefs)

			if tt.wantReason != "" {
				var se *workout.SuggestionError
				if !errors.As(err, &se) || se.Reason != tt.wantReason {
					t.Fatalf("Suggest() error = %v, want reason %s", err, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("Suggest() mismatch (-want +got):\n%s", diff)
			}
			if len(got.Exercises) != len(eligible) || got.Exercises[1].Duration != 30 {
				t.Errorf("request exercises = %+v", got.Exercises)
			}
			wantPrefs := suggest.PreferencesPayload{
				Goal: "cardio", DurationMinutes: 5, Difficulty: "beginner", Equipment: []string{"bodyweight"},
				Language: "fi",
			}
			if diff := cmp.Diff(wantPrefs, got.Preferences); diff != "" {
				t.Errorf("request preferences mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProxyClient_Suggest_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := suggest.NewProxyClient(url, nil, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	_, err := client.Suggest(t.Context(), eligible, prefs)
	var se *workout.SuggestionError
	if !errors.As(err, &se) || se.Reason != workout.SuggestionTransportError {
		t.Errorf("Suggest() error = %v, want transport error", err)
	}
}

func TestProxyRequest_ToDomain(t *testing.T) {
	exercises, got, err := suggest.NewProxyRequest(eligible, prefs).ToDomain()
	if err != nil {
		t.Fatalf("ToDomain() error = %v", err)
	}
	if diff := cmp.Diff(prefs, got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(eligible, exercises); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}

	invalid := suggest.NewProxyRequest(eligible, prefs)
	invalid.Preferences.Difficulty = "elite"
	if _, _, err = invalid.ToDomain(); !errors.Is(err, workout.ErrInvalidPreferences) {
		t.Errorf("ToDomain() error = %v, want %v", err, workout.ErrInvalidPreferences)
	}
}

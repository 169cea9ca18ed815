package suggest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/myrjola/intervalplan/internal/suggest"
)

func TestOpenAICompleter_Complete(t *testing.T) {
	var (
		calls atomic.Int32
		fail  atomic.Bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "gpt-4o-mini" || len(body.Messages) != 2 || body.Messages[1].Content != "pick three" {
			t.Errorf("request = %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "[\"id1\",\"id2\",\"id3\"]"}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	t.Cleanup(srv.Close)

	c := suggest.NewOpenAICompleter("test-key", srv.URL+"/v1/", "")
	got, err := c.Complete(t.Context(), "you are a trainer", "pick three")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if want := `["id1","id2","id3"]`; got != want {
		t.Errorf("Complete() = %q, want %q", got, want)
	}

	fail.Store(true)
	calls.Store(0)
	if _, err = c.Complete(t.Context(), "you are a trainer", "pick three"); err == nil {
		t.Error("Complete() error = nil on server error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want no retries", got)
	}
}

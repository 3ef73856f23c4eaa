package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const inlinePayload = `{"date": "2025-12-01", "smm_prices": {"tin": {"price_avg": 30000}}}`

func newTestClient(t *testing.T, handler http.Handler) *AgentClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAgentClient(srv.URL, "test-key", zap.NewNop(),
		WithTaskTimeout(2*time.Second),
		WithPollInterval(10*time.Millisecond))
}

func TestRunTask_InlineTextOutput(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "agent", req["task_mode"])
		assert.NotEmpty(t, req["prompt"])

		fmt.Fprint(w, `{"id": "task-1"}`)
	})
	mux.HandleFunc("GET /v1/tasks/task-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			fmt.Fprint(w, `{"status": "running"}`)
			return
		}
		resp := map[string]any{
			"status": "completed",
			"output": []map[string]any{
				{"type": "output_text", "text": inlinePayload},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client := newTestClient(t, mux)
	out, err := client.RunTask(context.Background(), "scrape the prices")
	require.NoError(t, err)
	assert.Equal(t, inlinePayload, out)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestRunTask_OutputFileWinsOverInlineText(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"task_id": "task-2"}`)
	})
	mux.HandleFunc("GET /v1/tasks/task-2", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status": "success",
			"output": []map[string]any{
				{
					"type": "message",
					"content": []map[string]any{
						{"type": "output_text", "text": `{"smm_prices": {}} stale inline prices`},
						{"type": "output_file", "fileUrl": srvURL + "/files/prices.json", "fileName": "prices.json"},
					},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	mux.HandleFunc("GET /files/prices.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, inlinePayload)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	client := NewAgentClient(srv.URL, "test-key", zap.NewNop(), WithPollInterval(10*time.Millisecond))
	out, err := client.RunTask(context.Background(), "scrape")
	require.NoError(t, err)
	assert.Equal(t, inlinePayload, out)
}

func TestRunTask_TaskFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "task-3"}`)
	})
	mux.HandleFunc("GET /v1/tasks/task-3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "failed", "error": "target site unreachable"}`)
	})

	client := newTestClient(t, mux)
	_, err := client.RunTask(context.Background(), "scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target site unreachable")
}

func TestRunTask_TimesOutOnStuckTask(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "task-4"}`)
	})
	mux.HandleFunc("GET /v1/tasks/task-4", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "running"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewAgentClient(srv.URL, "test-key", zap.NewNop(),
		WithTaskTimeout(50*time.Millisecond),
		WithPollInterval(10*time.Millisecond))
	_, err := client.RunTask(context.Background(), "scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not complete")
}

func TestRunTask_EmptyAPIKey(t *testing.T) {
	client := NewAgentClient("http://localhost:1", "", zap.NewNop())
	_, err := client.RunTask(context.Background(), "scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestRunTask_NoUsableOutput(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "task-5"}`)
	})
	mux.HandleFunc("GET /v1/tasks/task-5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "completed", "output": [{"type": "output_text", "text": "all done!"}]}`)
	})

	client := newTestClient(t, mux)
	_, err := client.RunTask(context.Background(), "scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable output")
}

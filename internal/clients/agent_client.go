// Package clients contains HTTP clients for external services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/pkg/retrier"
)

const (
	defaultTaskTimeout  = 10 * time.Minute
	defaultPollInterval = 15 * time.Second
	defaultHTTPTimeout  = 60 * time.Second
)

// TaskRunner runs one browsing-agent task to completion and returns its
// textual output.
type TaskRunner interface {
	RunTask(ctx context.Context, prompt string) (string, error)
}

// AgentClient drives a task-based browsing agent API: create a task, poll it
// until it finishes, then extract the produced document (either an output
// file or inline text).
type AgentClient struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	taskTimeout  time.Duration
	pollInterval time.Duration
	retrier      *retrier.Retrier
	logger       *zap.Logger
}

// Option configures an AgentClient.
type Option func(*AgentClient)

// WithTaskTimeout caps how long RunTask waits for task completion.
func WithTaskTimeout(d time.Duration) Option {
	return func(c *AgentClient) { c.taskTimeout = d }
}

// WithPollInterval sets the status polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *AgentClient) { c.pollInterval = d }
}

// NewAgentClient creates a client for the given agent API endpoint.
func NewAgentClient(baseURL, apiKey string, logger *zap.Logger, opts ...Option) *AgentClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &AgentClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		taskTimeout:  defaultTaskTimeout,
		pollInterval: defaultPollInterval,
		retrier:      retrier.New(retrier.WithMaxRetries(3)),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createTaskRequest struct {
	Prompt   string `json:"prompt"`
	TaskMode string `json:"task_mode"`
}

type createTaskResponse struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
}

type taskStatus struct {
	Status  string        `json:"status"`
	Output  []taskMessage `json:"output"`
	Error   string        `json:"error"`
	Message string        `json:"message"`
}

type taskMessage struct {
	Type    string        `json:"type"`
	Text    string        `json:"text"`
	FileURL string        `json:"fileUrl"`
	Name    string        `json:"fileName"`
	Content []taskMessage `json:"content"`
}

// RunTask creates a task and blocks until the agent completes it or the
// task timeout elapses.
func (c *AgentClient) RunTask(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("agent API key is empty")
	}

	taskID, err := retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) (string, error) {
		return c.createTask(ctx, prompt)
	})
	if err != nil {
		return "", errors.Wrap(err, "create agent task")
	}
	c.logger.Info("agent task created", zap.String("task_id", taskID))

	return c.waitForTask(ctx, taskID)
}

func (c *AgentClient) createTask(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(createTaskRequest{Prompt: prompt, TaskMode: "agent"})
	if err != nil {
		return "", errors.Wrap(err, "marshal task request")
	}

	respBody, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/tasks", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var created createTaskResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", errors.Wrap(err, "decode create-task response")
	}
	id := created.ID
	if id == "" {
		id = created.TaskID
	}
	if id == "" {
		return "", errors.New("agent API returned no task id")
	}
	return id, nil
}

func (c *AgentClient) waitForTask(ctx context.Context, taskID string) (string, error) {
	deadline := time.Now().Add(c.taskTimeout)
	started := time.Now()

	for {
		if time.Now().After(deadline) {
			return "", fmt.Errorf("agent task %s did not complete within %s", taskID, c.taskTimeout)
		}

		status, err := c.getTask(ctx, taskID)
		if err != nil {
			return "", err
		}

		switch strings.ToLower(status.Status) {
		case "completed", "success":
			return c.extractPayload(ctx, status.Output)
		case "error", "failed":
			msg := status.Error
			if msg == "" {
				msg = status.Message
			}
			return "", fmt.Errorf("agent task %s failed: %s", taskID, msg)
		}

		c.logger.Debug("agent task still running",
			zap.String("task_id", taskID),
			zap.String("status", status.Status),
			zap.Duration("elapsed", time.Since(started)))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *AgentClient) getTask(ctx context.Context, taskID string) (*taskStatus, error) {
	respBody, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	var status taskStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, errors.Wrap(err, "decode task status")
	}
	return &status, nil
}

// extractPayload walks the completed task's messages. An output_file wins
// (the agent writes the JSON document to a file when it can); inline
// output_text carrying a JSON object is the fallback.
func (c *AgentClient) extractPayload(ctx context.Context, messages []taskMessage) (string, error) {
	for _, msg := range messages {
		for _, item := range append(msg.Content, msg) {
			if item.Type == "output_file" && item.FileURL != "" {
				c.logger.Info("downloading agent output file", zap.String("file", item.Name))
				content, err := c.downloadFile(ctx, item.FileURL)
				if err != nil {
					c.logger.Warn("output file download failed, trying inline text", zap.Error(err))
					continue
				}
				return content, nil
			}
		}
	}

	for _, msg := range messages {
		for _, item := range append(msg.Content, msg) {
			if item.Type == "output_text" && strings.Contains(item.Text, "{") && strings.Contains(item.Text, "prices") {
				return item.Text, nil
			}
		}
	}

	return "", errors.New("agent task produced no usable output")
}

func (c *AgentClient) downloadFile(ctx context.Context, url string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *AgentClient) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "create HTTP request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

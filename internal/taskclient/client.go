// Package taskclient posts tasks straight to the hosted application store's
// REST endpoint (PostgREST, as exposed by Supabase), bypassing the API server.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
)

const tasksPath = "/rest/v1/tasks"

// NewTask is the row the client inserts. Status is always "pending"; an empty
// Description is left out so the column stays NULL.
type NewTask struct {
	UserID      int64
	Title       string
	Description string
}

type taskRow struct {
	UserID      int64  `json:"user_id"`
	Title       string `json:"task_title"`
	Description string `json:"task_description,omitempty"`
	Status      string `json:"status"`
}

// Client talks to one REST endpoint with one API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a Client for baseURL (e.g. https://xyz.supabase.co).
// A nil httpClient gets a 10 second timeout client.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("taskclient: base URL is required")
	}
	if apiKey == "" {
		return nil, errors.New("taskclient: API key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}, nil
}

// AddTask inserts t. A 409 from the endpoint is returned as an
// apperror.ErrConflict; any other non-2xx status is a plain error carrying
// the response body.
func (c *Client) AddTask(ctx context.Context, t NewTask) error {
	if t.Title == "" || t.UserID == 0 {
		return apperror.ValidationFailed("task", "Task title and user ID are required")
	}

	body, err := json.Marshal(taskRow{
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      model.TaskStatusPending,
	})
	if err != nil {
		return fmt.Errorf("taskclient: encoding task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tasksPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("taskclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-Id", xid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("taskclient: posting task: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return apperror.Conflict("task already exists")
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("taskclient: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}

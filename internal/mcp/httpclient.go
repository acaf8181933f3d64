package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/mapty/internal/store"
	"github.com/claude/mapty/internal/workout"
)

// HTTPClient implements DataSource by calling the Mapty REST API.
// Used for stdio MCP mode where the binary runs locally but the workouts
// live in a running server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var errNotFound = errors.New("not found")

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) Workouts(ctx context.Context) ([]workout.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts")
	if err != nil {
		return nil, err
	}
	var out []workout.Workout
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return out, nil
}

func (c *HTTPClient) Workout(ctx context.Context, id string) (workout.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts/"+url.PathEscape(id))
	if errors.Is(err, errNotFound) {
		return workout.Workout{}, store.ErrNotFound
	}
	if err != nil {
		return workout.Workout{}, err
	}
	var out workout.Workout
	if err := json.Unmarshal(body, &out); err != nil {
		return workout.Workout{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return out, nil
}

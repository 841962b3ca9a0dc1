// Package api implements the HTTP client for the remote analytics API.
// It is a thin transport layer: it normalizes nothing beyond JSON
// decoding and imposes no timeouts or retries of its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/pkg/models"
)

// Client fetches sessions, users, and analytics from the remote API.
type Client interface {
	FetchSessions(ctx context.Context, page, pageSize int) (models.SessionsAPIResponse, error)
	FetchSessionDetails(ctx context.Context, id string) (models.SessionDetails, error)
	BulkUpdate(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error)
	FetchUsers(ctx context.Context) ([]models.UserSummary, error)
	FetchTeamMetrics(ctx context.Context) ([]models.TeamMetric, error)
	FetchUserPerformance(ctx context.Context) ([]models.UserPerformance, error)
	FetchScoreTrends(ctx context.Context, days int) ([]models.ScoreTrendPoint, error)
}

// StatusError is returned when the server responds with a non-2xx status.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Path, e.Status)
}

type httpClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the API rooted at baseURL. The
// underlying http.Client carries no timeout; cancellation is the
// caller's concern via context.
func NewClient(baseURL string, log zerolog.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		log:     log,
	}
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	return c.do(req, path, out)
}

func (c *httpClient) put(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling body for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *httpClient) do(req *http.Request, path string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("api request failed")
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("api request rejected")
		return &StatusError{Status: resp.StatusCode, Path: path}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *httpClient) FetchSessions(ctx context.Context, page, pageSize int) (models.SessionsAPIResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var resp models.SessionsAPIResponse
	if err := c.get(ctx, "/sessions", query, &resp); err != nil {
		return models.SessionsAPIResponse{}, err
	}
	return resp, nil
}

func (c *httpClient) FetchSessionDetails(ctx context.Context, id string) (models.SessionDetails, error) {
	var details models.SessionDetails
	if err := c.get(ctx, "/sessions/"+url.PathEscape(id), nil, &details); err != nil {
		return models.SessionDetails{}, err
	}
	return details, nil
}

func (c *httpClient) BulkUpdate(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error) {
	body := models.BulkUpdateRequest{SessionIDs: ids, Feedback: feedback}
	var result models.BulkUpdateResult
	if err := c.put(ctx, "/sessions/bulk", body, &result); err != nil {
		return models.BulkUpdateResult{}, err
	}
	return result, nil
}

func (c *httpClient) FetchUsers(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *httpClient) FetchTeamMetrics(ctx context.Context) ([]models.TeamMetric, error) {
	var metrics []models.TeamMetric
	if err := c.get(ctx, "/analytics/team-metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (c *httpClient) FetchUserPerformance(ctx context.Context) ([]models.UserPerformance, error) {
	var perf []models.UserPerformance
	if err := c.get(ctx, "/analytics/user-performance", nil, &perf); err != nil {
		return nil, err
	}
	return perf, nil
}

func (c *httpClient) FetchScoreTrends(ctx context.Context, days int) ([]models.ScoreTrendPoint, error) {
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var points []models.ScoreTrendPoint
	if err := c.get(ctx, "/analytics/score-trends", query, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Package client is a Go client for the mandate HTTP API.
// Fetcher layers comparison job submission and polling on top of Client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds the connection settings for a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client issues requests against the mandate API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// New creates a Client. BaseURL should include the API prefix, for example
// http://localhost:8080/api.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
	}
}

// SubmitComparison creates a comparison job.
func (c *Client) SubmitComparison(ctx context.Context, req SubmitRequest) (*Submission, error) {
	var sub Submission
	if err := c.do(ctx, http.MethodPost, "/comparisons", nil, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindComparison returns the current state of a comparison job.
func (c *Client) FindComparison(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/comparisons/"+url.PathEscape(jobID), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ComparisonTable returns the reconciled view of a completed job.
// The result is decoded into out so callers choose their own representation.
func (c *Client) ComparisonTable(ctx context.Context, jobID string, q TableQuery, out any) error {
	params := url.Values{}
	if q.Sort != "" {
		params.Set("sort", string(q.Sort))
	}
	setBool(params, "changed_only", q.ChangedOnly)
	setBool(params, "hide_unchanged", q.HideUnchanged)
	setBool(params, "hide_added", q.HideAdded)
	setBool(params, "hide_removed", q.HideRemoved)

	return c.do(ctx, http.MethodGet, "/comparisons/"+url.PathEscape(jobID)+"/table", params, nil, out)
}

// ListRulesets returns all versions of a project's ruleset, oldest first.
func (c *Client) ListRulesets(ctx context.Context, projectID string) ([]Ruleset, error) {
	var rulesets []Ruleset
	path := "/projects/" + url.PathEscape(projectID) + "/rulesets"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rulesets); err != nil {
		return nil, err
	}
	return rulesets, nil
}

// FindRuleset returns a single version of a project's ruleset.
func (c *Client) FindRuleset(ctx context.Context, projectID string, version int) (*Ruleset, error) {
	var rs Ruleset
	path := "/projects/" + url.PathEscape(projectID) + "/rulesets/" + strconv.Itoa(version)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

func setBool(params url.Values, key string, v bool) {
	if v {
		params.Set(key, "true")
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: msg}
	if resp.StatusCode == http.StatusNotFound {
		return errors.Join(ErrNotFound, apiErr)
	}
	return apiErr
}

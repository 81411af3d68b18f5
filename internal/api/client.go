package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a running convertxd API server.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewClient constructs an API client. doer may be nil, in which case
// http.DefaultClient is used.
func NewClient(baseURL, token string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  doer,
	}
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (*DaemonStatus, error) {
	var out DaemonStatus
	if err := c.getJSON(ctx, "/api/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Formats fetches the full capability matrix.
func (c *Client) Formats(ctx context.Context) (*FormatsResponse, error) {
	var out FormatsResponse
	if err := c.getJSON(ctx, "/api/formats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FormatTargets fetches the reachable targets for one input extension.
func (c *Client) FormatTargets(ctx context.Context, ext string) (*FormatTargetsResponse, error) {
	var out FormatTargetsResponse
	if err := c.getJSON(ctx, "/api/formats/"+url.PathEscape(ext), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitJob submits a batch conversion and waits for its result.
func (c *Client) SubmitJob(ctx context.Context, req SubmitJobRequest) (*JobResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	var out JobResponse
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Jobs fetches the caller's jobs.
func (c *Client) Jobs(ctx context.Context) (*JobListResponse, error) {
	var out JobListResponse
	if err := c.getJSON(ctx, "/api/jobs", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Job fetches one job with its file records.
func (c *Client) Job(ctx context.Context, id string) (*JobResponse, error) {
	var out JobResponse
	if err := c.getJSON(ctx, "/api/jobs/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Artifact downloads one converted output file.
func (c *Client) Artifact(ctx context.Context, jobID, outputFileName string) ([]byte, error) {
	path := "/api/jobs/" + url.PathEscape(jobID) + "/files/" + url.PathEscape(outputFileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
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

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func decodeError(resp *http.Response) error {
	var payload ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("api: %s (%s)", payload.Error, resp.Status)
	}
	return fmt.Errorf("api: unexpected status %s", resp.Status)
}

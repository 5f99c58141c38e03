// Package recognizer is the HTTP client for the external facial-recognition
// backend. The backend exposes four operations: enroll a face under a label,
// (re)train its model, start watching the live feed for a case, and report
// whether a match has been found.
package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the recognition backend.
type Client struct {
	baseURL   string
	parsedURL *url.URL
	http      *http.Client
}

// New creates a recognition backend client. The timeout applies per request;
// the detection poll relies on it to bound a hung backend call.
func New(rawURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid recognizer URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid recognizer URL: %q", rawURL)
	}
	return &Client{
		baseURL:   strings.TrimRight(rawURL, "/"),
		parsedURL: parsed,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

// resolveURL builds a full URL from the base URL, a path and query values.
func (c *Client) resolveURL(path string, query url.Values) string {
	result := c.parsedURL.JoinPath(path)
	if len(query) > 0 {
		result.RawQuery = query.Encode()
	}
	return result.String()
}

// readErrorBody reads the response body for error messages.
// Returns empty string if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// ack is the backend's response to the three POST operations.
type ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// post sends a POST to the given path and checks for a success ack.
func (c *Client) post(ctx context.Context, path string, query url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL(path, query), nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var result ack
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("could not unmarshal response: %w", err)
	}
	if result.Status != "success" {
		return fmt.Errorf("backend reported status %q: %s", result.Status, result.Message)
	}
	return nil
}

// EnrollFace submits a face label to the enrollment endpoint.
func (c *Client) EnrollFace(ctx context.Context, label string) error {
	q := url.Values{"name": {label}}
	if err := c.post(ctx, "capture-face", q); err != nil {
		return fmt.Errorf("enrolling face %q: %w", label, err)
	}
	return nil
}

// Train instructs the backend to rebuild its recognition model.
func (c *Client) Train(ctx context.Context) error {
	if err := c.post(ctx, "train-model", nil); err != nil {
		return fmt.Errorf("training model: %w", err)
	}
	return nil
}

// StartRecognition instructs the backend to begin watching the live feed for
// the enrolled label, tagged with the case id.
func (c *Client) StartRecognition(ctx context.Context, caseID, label string) error {
	q := url.Values{"case_id": {caseID}, "name": {label}}
	if err := c.post(ctx, "recognize", q); err != nil {
		return fmt.Errorf("starting recognition for case %s: %w", caseID, err)
	}
	return nil
}

// PollDetection asks the backend whether a match has been found.
func (c *Client) PollDetection(ctx context.Context) (*Detection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL("get-found-person", nil), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var det Detection
	if err := json.NewDecoder(resp.Body).Decode(&det); err != nil {
		return nil, fmt.Errorf("could not unmarshal detection: %w", err)
	}
	return &det, nil
}

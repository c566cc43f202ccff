// Package sandbox talks to the environment-provisioning service: ephemeral,
// isolated execution environments created per hook-configuration run.
package sandbox

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

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL      = "https://api.devsandbox.sh/v1"
	defaultTemplate     = "base"
	defaultRetryElapsed = 15 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the provisioning API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		baseURL = strings.TrimSpace(baseURL)
		if c == nil || baseURL == "" {
			return
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if c == nil || hc == nil {
			return
		}
		c.httpClient = hc
	}
}

// WithRetryElapsed bounds the total time spent retrying one API call.
func WithRetryElapsed(d time.Duration) Option {
	return func(c *Client) {
		if c == nil || d <= 0 {
			return
		}
		c.retryElapsed = d
	}
}

// Client is a provisioning API client.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	retryElapsed time.Duration
}

// NewClient constructs a Client. The key may be empty; Create rejects the
// call before any network work in that case.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{},
		retryElapsed: defaultRetryElapsed,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type createRequest struct {
	Template string `json:"template"`
}

type createResponse struct {
	SandboxID string `json:"sandbox_id"`
}

// Create provisions a fresh sandbox from the given template.
func (c *Client) Create(ctx context.Context, template string) (Handle, error) {
	if c == nil {
		return Handle{}, errors.New("sandbox: nil client")
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return Handle{}, ErrMissingCredential
	}
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate
	}

	var resp createResponse
	err := c.do(ctx, http.MethodPost, "/sandboxes", createRequest{Template: template}, &resp)
	if err != nil {
		return Handle{}, fmt.Errorf("sandbox: create: %w", err)
	}
	if strings.TrimSpace(resp.SandboxID) == "" {
		return Handle{}, errors.New("sandbox: create: empty sandbox id in response")
	}
	return Handle{ID: resp.SandboxID}, nil
}

// Delete destroys a sandbox. Idempotent on the service side; a 404 after a
// successful delete elsewhere still surfaces as an APIError here.
func (c *Client) Delete(ctx context.Context, h Handle) error {
	if c == nil {
		return errors.New("sandbox: nil client")
	}
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("sandbox: delete: empty handle")
	}
	if err := c.do(ctx, http.MethodDelete, "/sandboxes/"+h.ID, nil, nil); err != nil {
		return fmt.Errorf("sandbox: delete %s: %w", h.ID, err)
	}
	return nil
}

type execRequest struct {
	Command   string `json:"command"`
	TimeoutMs int64  `json:"timeout_ms,omitempty"`
}

// Exec runs a shell command inside the sandbox and returns its captured
// output. A non-zero exit code is reported in the result, not as an error;
// transport and API failures are errors.
func (c *Client) Exec(ctx context.Context, h Handle, command string, timeout time.Duration) (ExecResult, error) {
	if c == nil {
		return ExecResult{}, errors.New("sandbox: nil client")
	}
	if strings.TrimSpace(h.ID) == "" {
		return ExecResult{}, errors.New("sandbox: exec: empty handle")
	}
	if strings.TrimSpace(command) == "" {
		return ExecResult{}, errors.New("sandbox: exec: empty command")
	}

	req := execRequest{Command: command}
	if timeout > 0 {
		req.TimeoutMs = timeout.Milliseconds()
	}

	var resp ExecResult
	if err := c.do(ctx, http.MethodPost, "/sandboxes/"+h.ID+"/exec", req, &resp); err != nil {
		return ExecResult{}, fmt.Errorf("sandbox: exec in %s: %w", h.ID, err)
	}
	return resp, nil
}

type writeFileRequest struct {
	Path    string `json:"path"`
	Content []byte `json:"content"` // base64 on the wire
	Mode    uint32 `json:"mode,omitempty"`
}

// WriteFile places a file inside the sandbox at the given absolute path.
func (c *Client) WriteFile(ctx context.Context, h Handle, path string, content []byte, mode uint32) error {
	if c == nil {
		return errors.New("sandbox: nil client")
	}
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("sandbox: write file: empty handle")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("sandbox: write file: path %q not absolute", path)
	}

	req := writeFileRequest{Path: path, Content: content, Mode: mode}
	if err := c.do(ctx, http.MethodPost, "/sandboxes/"+h.ID+"/files", req, nil); err != nil {
		return fmt.Errorf("sandbox: write %s in %s: %w", path, h.ID, err)
	}
	return nil
}

// do issues one API call with bounded retries on server faults and
// transport errors.
func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	if ctx == nil {
		return errors.New("nil context")
	}

	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	op := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       respBody,
			}
			var env struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(respBody, &env) == nil {
				apiErr.Message = env.Message
			}
			if !retryable(apiErr) {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode response: %w", err))
			}
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.retryElapsed
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

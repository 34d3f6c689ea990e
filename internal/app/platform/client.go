// Package platform is the HTTP client for the asrd control plane and its
// hosted inference endpoints.
package platform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apierrors "github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
)

const defaultTimeout = 2 * time.Minute

// Client talks to one asrd instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// RegisterModel registers a model resource on the control plane.
func (c *Client) RegisterModel(ctx context.Context, req *dto.RegisterModelRequest) (*dto.ModelResponse, error) {
	var resp dto.ModelResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/models", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateEndpoint creates or updates an endpoint.
func (c *Client) CreateEndpoint(ctx context.Context, req *dto.CreateEndpointRequest) (*dto.EndpointResponse, error) {
	var resp dto.EndpointResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/endpoints", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DescribeEndpoint fetches the current state of an endpoint.
func (c *Client) DescribeEndpoint(ctx context.Context, name string) (*dto.EndpointResponse, error) {
	var resp dto.EndpointResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/endpoints/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListEndpoints lists all endpoints.
func (c *Client) ListEndpoints(ctx context.Context) ([]dto.EndpointResponse, error) {
	var resp struct {
		Endpoints []dto.EndpointResponse `json:"endpoints"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/endpoints", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Endpoints, nil
}

// DeleteEndpoint tears down an endpoint.
func (c *Client) DeleteEndpoint(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/endpoints/"+url.PathEscape(name), nil, nil)
}

// Invoke sends raw WAV bytes for transcription and returns the transcript.
func (c *Client) Invoke(ctx context.Context, endpointName string, wavBytes []byte) (string, error) {
	req := dto.InvocationRequest{AudioB64: base64.StdEncoding.EncodeToString(wavBytes)}
	var resp dto.InvocationResponse
	path := "/api/v1/endpoints/" + url.PathEscape(endpointName) + "/invocations"
	if err := c.do(ctx, http.MethodPost, path, &req, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ListInvocations fetches the most recent invocation records.
func (c *Client) ListInvocations(ctx context.Context, endpointName string, limit int) ([]dto.InvocationRecordResponse, error) {
	var resp struct {
		Invocations []dto.InvocationRecordResponse `json:"invocations"`
	}
	path := "/api/v1/endpoints/" + url.PathEscape(endpointName) + "/invocations?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Invocations, nil
}

// WaitForEndpoint polls until the endpoint leaves Creating or the context
// expires. It returns the terminal state; InService is the happy path.
func (c *Client) WaitForEndpoint(ctx context.Context, name string, pollInterval time.Duration) (*dto.EndpointResponse, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		resp, err := c.DescribeEndpoint(ctx, name)
		if err != nil {
			return nil, err
		}
		if resp.Status != "Creating" {
			return resp, nil
		}

		select {
		case <-ctx.Done():
			return resp, fmt.Errorf("endpoint %s still creating: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apierrors.APIError
		data, _ := io.ReadAll(resp.Body)
		if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return &apiErr
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

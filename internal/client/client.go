// Package client talks to the inventory, sales, purchase-order and notification services over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

// StatusError is returned when a backend answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

type baseClient struct {
	baseURL string
	http    *http.Client
}

func newBaseClient(baseURL string, timeout time.Duration) (baseClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return baseClient{}, fmt.Errorf("base url must be provided")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return baseClient{}, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return baseClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c baseClient) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(data)
		if len(text) > maxErrorBodyLen {
			text = text[:maxErrorBodyLen]
		}
		return nil, &StatusError{Method: method, URL: target, Code: resp.StatusCode, Body: strings.TrimSpace(text)}
	}

	return data, nil
}

// unwrapData returns the "data" member when the service wraps its payload, else the root.
func unwrapData(payload []byte) gjson.Result {
	root := gjson.ParseBytes(payload)
	if root.IsObject() {
		if data := root.Get("data"); data.Exists() {
			return data
		}
	}
	return root
}

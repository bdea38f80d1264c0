// Package clients talks to the remote commerce API.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// maxErrorBody caps how much of an error reply is kept on StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned when the upstream answers outside 2xx.
type StatusError struct {
	Upstream   string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s %s: status %d", e.Upstream, e.Method, e.Path, e.StatusCode)
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
	Token   string
}

func NewClient(name, baseURL, token string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient, Token: token}
}

func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, headers http.Header) (*http.Response, error) {
	// JoinPath keeps any path prefix on the base url
	u := c.BaseURL.JoinPath(path)
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	return c.HTTP.Do(req)
}

// getRaw performs a GET and returns the body of a 2xx reply.
func (c *Client) getRaw(ctx context.Context, path, rawQuery string) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, rawQuery, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s GET %s: %w", c.Name, path, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.MethodGet, path); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s GET %s: read body: %w", c.Name, path, err)
	}
	return raw, nil
}

// postJSON sends in as JSON and decodes a 2xx reply into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s POST %s: encode: %w", c.Name, path, err)
	}

	resp, err := c.Do(ctx, http.MethodPost, path, "", bytes.NewReader(payload), nil)
	if err != nil {
		return fmt.Errorf("%s POST %s: %w", c.Name, path, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.MethodPost, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s POST %s: decode: %w", c.Name, path, err)
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response, method, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Upstream:   c.Name,
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

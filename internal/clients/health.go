package clients

import (
	"context"
	"net/http"
	"time"
)

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CheckHealth probes path on the upstream. Any HTTP answer below 500 counts
// as reachable since the commerce API has no dedicated health route.
func CheckHealth(ctx context.Context, c *Client, path string) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.Do(ctx, http.MethodGet, path, "", nil, nil)
	if err != nil {
		return HealthResult{Name: c.Name, OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	return HealthResult{Name: c.Name, OK: resp.StatusCode < 500, StatusCode: resp.StatusCode}
}

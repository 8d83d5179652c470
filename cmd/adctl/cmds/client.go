package cmds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const requestTimeout = 30 * time.Second

func newClient() *http.Client {
	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = requestTimeout
	httpClient.RetryMax = 3
	httpClient.Logger = nil
	return httpClient.StandardClient()
}

// do sends an authenticated request to the game server and returns the
// response body. Non-2xx responses are turned into errors.
func do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, serverURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to construct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(username, password)

	resp, err := newClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("invalid status code: %v", resp.StatusCode)
	}

	return body, nil
}

package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
)

const maxResponseBytes = 2 << 20

// getJSONBody issues a GET with the given query and returns the body. Non-2xx
// statuses are mapped to upstream or transient errors.
func getJSONBody(ctx context.Context, client *http.Client, baseURL string, params url.Values) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", baseURL)
	}

	q := parsed.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	parsed.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "estatebot/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, estateErrors.MapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, estateErrors.Transient(fmt.Sprintf("%s returned status %d", parsed.Host, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return body, estateErrors.Upstream(fmt.Sprintf("%s returned status %d", parsed.Host, resp.StatusCode))
	}
	return body, nil
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

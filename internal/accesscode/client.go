package accesscode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient talks to the relay's access-code endpoints.
type HTTPClient struct {
	base string
	hc   *http.Client
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

type createRequest struct {
	MatchTitle string `json:"matchTitle"`
	TTLSeconds int    `json:"ttlSeconds,omitempty"`
}

func (c *HTTPClient) Create(ctx context.Context, matchTitle string, ttl time.Duration) (Code, error) {
	body, err := json.Marshal(createRequest{MatchTitle: matchTitle, TTLSeconds: int(ttl / time.Second)})
	if err != nil {
		return Code{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/access-codes", bytes.NewReader(body))
	if err != nil {
		return Code{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, http.StatusCreated)
}

func (c *HTTPClient) Verify(ctx context.Context, code string) (Code, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/access-codes/"+url.PathEscape(code)+"/verify", nil)
	if err != nil {
		return Code{}, err
	}
	return c.do(req, http.StatusOK)
}

func (c *HTTPClient) do(req *http.Request, want int) (Code, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return Code{}, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case want:
	case http.StatusNotFound:
		return Code{}, ErrNotFound
	case http.StatusGone:
		return Code{}, ErrInactive
	default:
		return Code{}, fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	var out Code
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Code{}, fmt.Errorf("decode access code: %w", err)
	}
	return out, nil
}

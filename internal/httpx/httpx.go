package httpx

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net"
    "net/http"
    "net/url"
    "time"
)

// DefaultTimeout bounds every request; there are no retries, so a slow
// upstream surfaces as a single failed call.
const DefaultTimeout = 10 * time.Second

// browserUserAgent identifies us the way the upstream tearsheet pages
// expect; the chart API rejects obviously non-browser agents.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
    "AppleWebKit/537.36 (KHTML, like Gecko) " +
    "Chrome/120.0.0.0 Safari/537.36"

// Doer performs an HTTP request.
//
//go:generate mockgen -package=httpx_test -destination=mock_doer_test.go -source=httpx.go Doer
type Doer interface {
    Do(req *http.Request) (*http.Response, error)
}

// Client is a small wrapper around http.Client with sane defaults.
type Client struct {
    HTTP      Doer
    UserAgent string
    Headers   map[string]string
}

func New(timeout time.Duration) *Client {
    if timeout <= 0 {
        timeout = DefaultTimeout
    }
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          200,
        MaxIdleConnsPerHost:   100,
        MaxConnsPerHost:       100,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   3 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: 5 * time.Second,
    }
    return &Client{
        HTTP:      &http.Client{Timeout: timeout, Transport: transport},
        UserAgent: browserUserAgent,
        Headers:   map[string]string{"Accept": "application/json, text/plain, */*"},
    }
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    for k, v := range c.Headers {
        if req.Header.Get(k) == "" {
            req.Header.Set(k, v)
        }
    }
    return c.HTTP.Do(req.WithContext(ctx))
}

// GetText fetches rawurl with optional query params and returns the body
// as text. Non-2xx statuses are errors carrying a truncated body excerpt.
func (c *Client) GetText(ctx context.Context, rawurl string, params url.Values) (string, error) {
    if len(params) > 0 {
        rawurl = rawurl + "?" + params.Encode()
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, http.NoBody)
    if err != nil {
        return "", fmt.Errorf("build request %s: %w", rawurl, err)
    }
    return c.bodyText(ctx, req)
}

// PostJSON sends body as JSON to rawurl and returns the response text.
func (c *Client) PostJSON(ctx context.Context, rawurl string, body any) (string, error) {
    payload, err := json.Marshal(body)
    if err != nil {
        return "", fmt.Errorf("encode request body: %w", err)
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, bytes.NewReader(payload))
    if err != nil {
        return "", fmt.Errorf("build request %s: %w", rawurl, err)
    }
    req.Header.Set("Content-Type", "application/json")
    return c.bodyText(ctx, req)
}

func (c *Client) bodyText(ctx context.Context, req *http.Request) (string, error) {
    resp, err := c.Do(ctx, req)
    if err != nil {
        return "", fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
        return "", fmt.Errorf("%s %s -> %d: %s", req.Method, req.URL, resp.StatusCode, string(b))
    }
    b, err := io.ReadAll(resp.Body)
    if err != nil {
        return "", fmt.Errorf("%s %s: read body: %w", req.Method, req.URL, err)
    }
    return string(b), nil
}

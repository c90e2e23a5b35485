// Shared resty client for the HTTP services singarr talks to
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/singarr/internal/shared"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 5.0
	userAgent        = "singarr/1.0"
)

// APIOptions configures an [APIClient].
type APIOptions struct {
	Name      string        // Used in error messages and logs
	BaseURL   string        // Relative request paths are resolved against it
	Timeout   time.Duration // Per request; defaults to 30s
	RateLimit float64       // Requests per second; defaults to 5
}

// APIClient is a rate limited resty client for one upstream.
type APIClient struct {
	name    string
	baseURL string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewAPIClient creates a client for the upstream described by opts.
func NewAPIClient(opts APIOptions) *APIClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", userAgent)

	return &APIClient{
		name:    opts.Name,
		baseURL: opts.BaseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// Name returns the upstream name.
func (a *APIClient) Name() string { return a.name }

// SetTimeout changes the per request timeout.
func (a *APIClient) SetTimeout(d time.Duration) {
	if d > 0 {
		a.client.SetTimeout(d)
	}
}

// Request waits for the rate limiter and returns a request bound to ctx.
func (a *APIClient) Request(ctx context.Context) (*resty.Request, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}
	return a.client.R().SetContext(ctx), nil
}

// URL joins path onto base. Absolute URLs are returned unchanged.
func URL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// GetJSON performs a GET against path and decodes the JSON body into out.
func (a *APIClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return a.GetJSONFrom(ctx, a.baseURL, path, query, nil, out)
}

// GetJSONFrom is [APIClient.GetJSON] against an explicit base URL and extra headers.
func (a *APIClient) GetJSONFrom(ctx context.Context, base, path string, query url.Values, headers map[string]string, out any) error {
	req, err := a.Request(ctx)
	if err != nil {
		return err
	}

	endpoint := URL(base, path)
	resp, err := req.
		SetQueryParamsFromValues(query).
		SetHeaders(headers).
		SetHeader("Accept", "application/json").
		SetResult(out).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, a.name, err)
	}

	return checkResponse(a.name, endpoint, resp)
}

// PostJSON sends body as JSON to path and decodes the response into out.
func (a *APIClient) PostJSON(ctx context.Context, path string, body, out any) error {
	req, err := a.Request(ctx)
	if err != nil {
		return err
	}

	endpoint := URL(a.baseURL, path)
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(body).
		SetResult(out).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, a.name, err)
	}

	return checkResponse(a.name, endpoint, resp)
}

// Download fetches rawURL and returns the body.
func (a *APIClient) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := a.Request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, a.name, err)
	}
	if err := checkResponse(a.name, rawURL, resp); err != nil {
		return nil, err
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body from %s", shared.ErrAPIRequest, a.name, rawURL)
	}
	return resp.Body(), nil
}

func checkResponse(name, endpoint string, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	body := strings.TrimSpace(resp.String())
	if len(body) > 200 {
		body = body[:200]
	}

	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s: %s returned 404", shared.ErrNotFound, name, endpoint)
	}
	return fmt.Errorf("%w: %s: %s returned status %d: %s", shared.ErrAPIRequest, name, endpoint, resp.StatusCode(), body)
}

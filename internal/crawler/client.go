package crawler

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher retrieves the body of a page.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client is the HTTP Fetcher used against the catalog. Every request carries
// its own timeout; there are no retries.
type Client struct {
	http *resty.Client
}

func NewClient(timeout time.Duration) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetRetryCount(0)
	httpClient.SetHeader("User-Agent", "Mozilla/5.0")
	httpClient.SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Client{http: httpClient}
}

func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{URL: url, Status: resp.StatusCode()}
	}
	return resp.Body(), nil
}

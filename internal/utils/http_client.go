package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client bound to baseURL that retries failed
// requests retries times.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://seq:5341", 5*time.Second, 3)
//	resp, err := client.R().SetBody(payload).Post("/api/events/raw")
func NewHTTPClient(baseURL string, timeout time.Duration, retries int) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)

	return &HTTPClient{Client: c}
}

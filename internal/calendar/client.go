// Package calendar fetches the reservation feed and turns it into
// reservations ordered by start time.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"sauna_automation/internal/models"
)

// maxFeedBytes caps the size of a downloaded feed.
const maxFeedBytes = 8 << 20

// Options configures a Client.
type Options struct {
	URL            string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	// Instrument optionally wraps the transport, e.g. for metrics.
	Instrument func(http.RoundTripper) http.RoundTripper
}

// Client downloads and parses the reservation feed.
type Client struct {
	url string
	hc  *http.Client
}

func New(opts Options) *Client {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout, KeepAlive: 30 * time.Second}
	var rt http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: opts.ConnectTimeout,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.Instrument != nil {
		rt = opts.Instrument(rt)
	}
	return &Client{
		url: opts.URL,
		hc:  &http.Client{Transport: rt, Timeout: opts.Timeout},
	}
}

// FetchReservations downloads the feed and returns its reservations sorted
// by start. Any failure, including an unparsable feed, is a *FetchError.
func (c *Client) FetchReservations(ctx context.Context) ([]models.Reservation, error) {
	raw, err := c.download(ctx)
	if err != nil {
		return nil, err
	}
	res, err := Parse(raw)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return res, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: excerpt(raw)}
	}
	return raw, nil
}

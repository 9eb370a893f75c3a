package heater

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sauna_automation/internal/models"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL        string // e.g. https://sauna.huum.eu/action/home/
	Username       string
	Password       string
	Timeout        time.Duration // whole request, per attempt
	ConnectTimeout time.Duration
	Retry          RetryPolicy
	// Instrument optionally wraps each session's transport, e.g. for metrics.
	Instrument func(http.RoundTripper) http.RoundTripper
}

// Client talks to the heater control service.
type Client struct {
	base *url.URL
	opts Options
}

// New validates the base URL and returns a client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse heater url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("heater url %q must be absolute", opts.BaseURL)
	}
	if opts.Retry.Attempts == 0 {
		opts.Retry.Attempts = DefaultAttempts
	}
	if opts.Retry.BaseDelay == 0 {
		opts.Retry.BaseDelay = DefaultBaseDelay
	}
	return &Client{base: base, opts: opts}, nil
}

// TurnOn starts heating toward target. Invalid targets fail without a request.
func (c *Client) TurnOn(ctx context.Context, target int) (models.HeaterStatus, error) {
	if err := ValidateTemperature(target); err != nil {
		return models.HeaterStatus{}, err
	}
	payload := map[string]int{"targetTemperature": target}
	return c.withSession(func(s *session) (models.HeaterStatus, error) {
		return retry(ctx, c.opts.Retry, func(ctx context.Context) (models.HeaterStatus, error) {
			return s.call(ctx, "start", http.MethodPost, c.endpoint("start"), payload)
		})
	})
}

// TurnOff stops heating.
func (c *Client) TurnOff(ctx context.Context) (models.HeaterStatus, error) {
	return c.withSession(func(s *session) (models.HeaterStatus, error) {
		return retry(ctx, c.opts.Retry, func(ctx context.Context) (models.HeaterStatus, error) {
			return s.call(ctx, "stop", http.MethodPost, c.endpoint("stop"), nil)
		})
	})
}

// Status queries the current state once, without retrying.
func (c *Client) Status(ctx context.Context) (models.HeaterStatus, error) {
	return c.withSession(func(s *session) (models.HeaterStatus, error) {
		return s.call(ctx, "status", http.MethodGet, c.endpoint("status"), nil)
	})
}

// ToggleLight switches the sauna light, without retrying.
func (c *Client) ToggleLight(ctx context.Context) (models.HeaterStatus, error) {
	return c.withSession(func(s *session) (models.HeaterStatus, error) {
		return s.call(ctx, "light", http.MethodGet, c.endpoint("light"), nil)
	})
}

func (c *Client) endpoint(name string) string {
	return c.base.JoinPath(name).String()
}

// session is the connection scope of one logical operation.
type session struct {
	hc        *http.Client
	transport *http.Transport
	username  string
	password  string
}

// withSession opens a session, runs fn and always releases the session's
// connections, whatever fn returns.
func (c *Client) withSession(fn func(s *session) (models.HeaterStatus, error)) (models.HeaterStatus, error) {
	s := c.openSession()
	defer s.close()
	return fn(s)
}

func (c *Client) openSession() *session {
	dialer := &net.Dialer{Timeout: c.opts.ConnectTimeout, KeepAlive: 30 * time.Second}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: c.opts.ConnectTimeout,
		MaxIdleConns:        1,
	}
	var rt http.RoundTripper = tr
	if c.opts.Instrument != nil {
		rt = c.opts.Instrument(rt)
	}
	return &session{
		hc:        &http.Client{Transport: rt, Timeout: c.opts.Timeout},
		transport: tr,
		username:  c.opts.Username,
		password:  c.opts.Password,
	}
}

func (s *session) close() {
	s.transport.CloseIdleConnections()
}

func (s *session) call(ctx context.Context, op, method, rawURL string, payload any) (models.HeaterStatus, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return models.HeaterStatus{}, &ControlError{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return models.HeaterStatus{}, &ControlError{Op: op, Err: err}
	}
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return models.HeaterStatus{}, &ControlError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.HeaterStatus{}, &ControlError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.HeaterStatus{}, &ControlError{Op: op, StatusCode: resp.StatusCode, Body: excerpt(raw)}
	}

	st, err := decodeStatus(raw)
	if err != nil {
		return models.HeaterStatus{}, &ControlError{Op: op, StatusCode: resp.StatusCode, Body: excerpt(raw), Err: err}
	}
	return st, nil
}

// statusResponse is the service's status document. Numbers arrive either as
// JSON numbers or as quoted strings.
type statusResponse struct {
	StatusCode        int        `json:"statusCode"`
	Door              bool       `json:"door"`
	Temperature       flexNumber `json:"temperature"`
	TargetTemperature flexNumber `json:"targetTemperature"`
	Light             flexNumber `json:"light"`
}

func decodeStatus(raw []byte) (models.HeaterStatus, error) {
	var r statusResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.HeaterStatus{}, fmt.Errorf("decode status: %w", err)
	}
	return models.HeaterStatus{
		StatusCode:        r.StatusCode,
		Temperature:       float64(r.Temperature),
		TargetTemperature: float64(r.TargetTemperature),
		DoorClosed:        r.Door,
		Light:             r.Light != 0,
		IsOn:              r.StatusCode == models.StatusHeating,
	}, nil
}

type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch s {
	case "", "null", "false":
		*n = 0
		return nil
	case "true":
		*n = 1
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = flexNumber(f)
	return nil
}

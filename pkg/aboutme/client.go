// Package aboutme is a client for the about.me profile API.
package aboutme

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/aboutme-client/pkg/httpclient"
)

const (
	DefaultBaseURL        = "https://api.about.me/api"
	DefaultVersion        = "v2"
	DefaultFormat         = "json"
	DefaultTimeoutSeconds = 2
)

// Config holds the immutable client settings.
type Config struct {
	// Key is the about.me developer key. Required.
	Key            string
	Version        string
	Format         string
	TimeoutSeconds int
	BaseURL        string
}

// Timeout returns the connect timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func normalizeConfig(cfg Config) Config {
	if cfg.Version = strings.TrimSpace(cfg.Version); cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Format = strings.TrimSpace(cfg.Format); cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}

// Client issues requests against the about.me API. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	cfg       Config
	transport httpclient.Client
	log       Logger
}

// New validates cfg and builds a client. A nil transport selects the resty
// transport with the configured connect timeout.
func New(cfg Config, transport httpclient.Client, log Logger) (*Client, error) {
	cfg = normalizeConfig(cfg)
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, fmt.Errorf("%w: please specify an about.me developer key", ErrConfiguration)
	}
	if transport == nil {
		transport = httpclient.NewRestyClient(cfg.Timeout())
	}
	return &Client{
		cfg:       cfg,
		transport: transport,
		log:       ensureLogger(log),
	}, nil
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Request describes a single API call.
type Request struct {
	Method     string
	ObjectType string
	Action     string
	Object     string
	SubType    string
	Query      map[string]string
}

// Do executes req and validates the decoded response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	url := c.BuildURL(req)
	headers := map[string]string{
		// The key goes out as-is; the service does not expect base64 credentials.
		"Authorization": "Basic " + c.cfg.Key,
	}

	c.log.DebugObj("aboutme request", "aboutme_request", map[string]any{
		"method": method,
		"url":    url,
	})

	var (
		raw httpclient.Response
		err error
	)
	switch method {
	case http.MethodGet:
		raw, err = c.transport.Get(ctx, url, headers)
	case http.MethodPost:
		raw, err = c.transport.Post(ctx, url, headers)
	default:
		return nil, fmt.Errorf("aboutme: unsupported request method %q", req.Method)
	}
	if err != nil {
		return nil, fmt.Errorf("aboutme: request %s %s: %w", method, url, err)
	}

	resp, err := decodeResponse(raw.Body())
	if err != nil {
		c.log.WarnObj("aboutme response rejected", "aboutme_response_error", map[string]any{
			"method":      method,
			"url":         url,
			"http_status": raw.StatusCode(),
			"error":       err.Error(),
		})
		return nil, err
	}
	return resp, nil
}

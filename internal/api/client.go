// Package api implements the client for the nearby assistant endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/nearbychat/internal/errors"
	"github.com/diogo/nearbychat/internal/models"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 4 << 20

// HeaderRequestID carries the per-request correlation id
const HeaderRequestID = "X-Request-ID"

// HTTPDoer is the part of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is implemented by Client and MockClient
type ClientInterface interface {
	Ask(ctx context.Context, req models.AIRequest) (*models.AIResponse, error)
	Endpoint() string
}

// Client posts queries to the assistant endpoint
type Client struct {
	httpClient     HTTPDoer
	endpoint       string
	timeoutSeconds int
	logger         zerolog.Logger
	newRequestID   func() string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the URL queries are posted to
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the default TLS client
func WithHTTPClient(httpClient HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeoutSeconds bounds each request; zero means no timeout
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDFunc overrides how request ids are generated
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.newRequestID = fn
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint:     models.DefaultEndpoint,
		logger:       zerolog.Nop(),
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the URL queries are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask posts one query and returns the parsed reply. A non-2xx status yields
// a *errors.ServerError; a failed round trip or an unreadable body yields a
// *errors.TransportError. No retry is attempted.
func (c *Client) Ask(ctx context.Context, req models.AIRequest) (*models.AIResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, apierrors.ErrEmptyQuery
	}
	if req.History == nil {
		req.History = []models.ChatTurn{}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apierrors.NewTransportError("create request", c.endpoint, err)
	}

	for key, value := range models.DefaultHeaders() {
		httpReq.Header.Set(key, value)
	}
	requestID := c.newRequestID()
	httpReq.Header.Set(HeaderRequestID, requestID)

	log := c.logger.With().
		Str("request_id", requestID).
		Str("endpoint", c.endpoint).
		Logger()
	log.Debug().
		Int("history", len(req.History)).
		Bool("live_mode", req.LiveMode).
		Msg("sending query")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, apierrors.NewTransportError("send request", c.endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	var body []byte
	if resp.Body != nil {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			log.Warn().Err(err).Msg("failed to read response body")
			return nil, apierrors.NewTransportError("read response", c.endpoint, err)
		}
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("received response")

	out, err := parseResponse(resp.StatusCode, body, c.endpoint)
	if err != nil {
		log.Info().Err(err).Int("status", resp.StatusCode).Msg("query failed")
		return nil, err
	}
	return out, nil
}

// parseResponse maps a status and body onto a reply or a typed error.
// The body is decoded before the status is inspected, so an error status
// with a non-JSON body is a transport failure rather than a server error.
func parseResponse(status int, body []byte, endpoint string) (*models.AIResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewTransportError("decode response", endpoint,
			apierrors.NewParseError("response body is not valid JSON"))
	}
	parsed := gjson.ParseBytes(body)

	if status < 200 || status > 299 {
		return nil, apierrors.NewServerError(status, endpoint, detailText(parsed.Get("detail")))
	}

	if !parsed.IsObject() {
		return nil, apierrors.NewTransportError("decode response", endpoint,
			apierrors.NewParseError("response body is not a JSON object"))
	}

	return models.ParseAIResponse(parsed), nil
}

// detailText returns a string detail verbatim and any other JSON value
// (validation error lists, objects) as its raw text
func detailText(detail gjson.Result) string {
	switch detail.Type {
	case gjson.String:
		return detail.Str
	case gjson.Null:
		return ""
	default:
		return detail.Raw
	}
}

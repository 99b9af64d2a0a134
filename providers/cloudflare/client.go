// Package cloudflare implements the ddnsd record store interface for
// Cloudflare DNS.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"gitlab.bluewillows.net/root/ddnsd/pkg/httputil"
	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

const (
	// DefaultAPIEndpoint is the base URL for Cloudflare API v4.
	DefaultAPIEndpoint = "https://api.cloudflare.com/client/v4"

	// DefaultTimeout is the HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// ttlAutomatic is Cloudflare's sentinel TTL meaning "automatic".
	// Dynamic records always use it.
	ttlAutomatic = 1
)

// apiError represents an error from the Cloudflare API.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// apiResponse is the standard Cloudflare API response wrapper.
type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// dnsRecord represents a DNS record from the Cloudflare API.
type dnsRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// writeRecordRequest is the request body for creating or updating a record.
type writeRecordRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// Client is a Cloudflare DNS API client.
type Client struct {
	apiEndpoint string
	apiKey      string
	httpClient  *http.Client
	logger      *slog.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAPIEndpoint sets a custom API endpoint (useful for testing).
func WithAPIEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.apiEndpoint = endpoint
	}
}

// NewClient creates a new Cloudflare API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiEndpoint: DefaultAPIEndpoint,
		apiKey:      apiKey,
		httpClient:  httputil.NewClient(&httputil.ClientConfig{Timeout: DefaultTimeout}),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest performs one HTTP round-trip against the Cloudflare API and
// decodes the standard response envelope.
//
// Failures split along the boundary the rest of ddnsd relies on: anything
// that prevents obtaining a well-formed envelope (connection failure,
// unreadable or malformed body) is a provider.TransportError for op, while
// an envelope with success=false becomes a provider.APIError carrying the
// backend's own diagnostics in their original order.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body any) (*apiResponse, error) {
	reqURL := c.apiEndpoint + path

	c.logger.Debug("cloudflare API request",
		slog.String("method", method),
		slog.String("path", path),
	)

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &provider.TransportError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, &provider.TransportError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &provider.TransportError{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TransportError{Op: op, Err: fmt.Errorf("reading response body: %w", err)}
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &provider.TransportError{Op: op, Err: fmt.Errorf("parsing response JSON: %w", err)}
	}

	if !envelope.Success {
		details := make([]provider.ErrorDetail, len(envelope.Errors))
		for i, e := range envelope.Errors {
			details[i] = provider.ErrorDetail{Code: e.Code, Message: e.Message}
		}
		return nil, &provider.APIError{Errors: details}
	}

	return &envelope, nil
}

// FindRecord returns the A record matching name exactly, or nil if the zone
// has none.
func (c *Client) FindRecord(ctx context.Context, zoneID, name string) (*dnsRecord, error) {
	params := url.Values{}
	params.Set("type", provider.RecordTypeA)
	params.Set("name", name)

	path := fmt.Sprintf("/zones/%s/dns_records?%s", zoneID, params.Encode())
	resp, err := c.doRequest(ctx, "lookup", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var records []dnsRecord
	if err := json.Unmarshal(resp.Result, &records); err != nil {
		return nil, &provider.TransportError{Op: "lookup", Err: fmt.Errorf("parsing records result: %w", err)}
	}

	if len(records) == 0 {
		return nil, nil
	}

	return &records[0], nil
}

// CreateRecord creates a new A record in the zone. The record uses the
// automatic TTL sentinel and is never proxied, since proxying would hide
// the real address a dynamic-DNS client just reported.
func (c *Client) CreateRecord(ctx context.Context, zoneID, name, content string) (*dnsRecord, error) {
	body := writeRecordRequest{
		Type:    provider.RecordTypeA,
		Name:    name,
		Content: content,
		TTL:     ttlAutomatic,
		Proxied: false,
	}

	path := fmt.Sprintf("/zones/%s/dns_records", zoneID)
	resp, err := c.doRequest(ctx, "create", http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	record, err := decodeRecord(resp.Result)
	if err != nil {
		return nil, &provider.TransportError{Op: "create", Err: err}
	}

	c.logger.Info("created DNS record",
		slog.String("zone_id", zoneID),
		slog.String("name", name),
		slog.String("content", content),
		slog.String("record_id", record.ID),
	)

	return record, nil
}

// UpdateRecord rewrites the record identified by recordID, pointing name at
// content while keeping type and name exactly as supplied.
func (c *Client) UpdateRecord(ctx context.Context, zoneID, recordID, name, content string) (*dnsRecord, error) {
	body := writeRecordRequest{
		Type:    provider.RecordTypeA,
		Name:    name,
		Content: content,
		TTL:     ttlAutomatic,
		Proxied: false,
	}

	path := fmt.Sprintf("/zones/%s/dns_records/%s", zoneID, recordID)
	resp, err := c.doRequest(ctx, "update", http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}

	record, err := decodeRecord(resp.Result)
	if err != nil {
		return nil, &provider.TransportError{Op: "update", Err: err}
	}

	c.logger.Info("updated DNS record",
		slog.String("zone_id", zoneID),
		slog.String("name", name),
		slog.String("content", content),
		slog.String("record_id", record.ID),
	)

	return record, nil
}

// decodeRecord parses a single record out of a write response.
func decodeRecord(raw json.RawMessage) (*dnsRecord, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("no result in response")
	}

	var record dnsRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("parsing record result: %w", err)
	}
	return &record, nil
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/ticketvec/core"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 1000

// Client fetches pages of tickets from a remote ticketing system's list
// endpoint. The filter predicate narrows the source to the ticket population
// eligible for ingestion (e.g. closed, non-cancelled, in configured queues);
// its contents are opaque to the ingestion loop.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	filter     string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBasicAuth sets the credentials sent with every page request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithFilter sets the filter predicate forwarded as the query parameter.
func WithFilter(filter string) Option {
	return func(c *Client) {
		c.filter = filter
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a ticket source client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL required", ErrSource)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     slog.Default().With("component", "ticket-source"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ticketPayload is the wire shape of one ticket in a page response.
type ticketPayload struct {
	TicketNumber string `json:"ticket_number"`
	Summary      string `json:"summary"`
	Notes        string `json:"notes"`
}

// pageEnvelope is the wire shape of a page response.
type pageEnvelope struct {
	Tickets []ticketPayload `json:"tickets"`
}

// FetchPage requests one page of tickets. Page numbering starts at 1.
// An empty slice means the backlog is exhausted; there is no total-count
// header to rely on. Transport and auth failures, non-2xx statuses and
// malformed payloads all surface as errors matching ErrSource; malformed
// payloads additionally carry the raw body via *PageError.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) ([]core.TicketRecord, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	if c.filter != "" {
		params.Set("query", c.filter)
	}

	endpoint := c.baseURL + "/tickets?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("fetching ticket page", "page", page, "pageSize", pageSize)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("page fetch failed", "page", page, "err", err)
		return nil, fmt.Errorf("%w: page %d: %w", ErrSource, page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading page %d: %w", ErrSource, page, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("page fetch returned error status", "page", page, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: page %d: status %d", ErrSource, page, resp.StatusCode)
	}

	records, err := decodePage(page, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched ticket page", "page", page, "records", len(records))
	return records, nil
}

// decodePage parses a page body once, at the collaborator boundary.
// Accepted shapes: {"tickets": [...]} or a bare JSON array. Anything else is
// a *PageError carrying the raw body.
func decodePage(page int, body []byte) ([]core.TicketRecord, error) {
	var payload []ticketPayload

	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Tickets != nil {
		payload = envelope.Tickets
	} else if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &PageError{Page: page, Raw: string(body)}
	}

	records := make([]core.TicketRecord, len(payload))
	for i, t := range payload {
		records[i] = core.TicketRecord{
			TicketNumber: t.TicketNumber,
			Summary:      t.Summary,
			Notes:        t.Notes,
		}
	}
	return records, nil
}

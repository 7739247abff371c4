// Package kickbase is the REST client for the Kickbase API. It owns the
// login handshake and snapshot fetching, and exposes a raw request primitive
// for the offer submitter, which probes endpoint shapes itself.
package kickbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"kickbid/internal/domain"
)

// Client is the REST client for the Kickbase API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	token    string
	userName string
}

// NewClient creates a new Kickbase REST client.
//
// baseURL is the API root, e.g. "https://api.kickbase.com". timeout bounds
// every request; it matches the original deployment's 20s.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Login performs the POST /v4/user/login handshake and stores the returned
// bearer token for subsequent requests. A 401/403 maps to
// domain.ErrUnauthorized; an unparseable body maps to
// domain.ErrMalformedResponse.
func (c *Client) Login(ctx context.Context, email, password string) error {
	status, body, err := c.Do(ctx, http.MethodPost, "/v4/user/login", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("kickbase: login: %w", err)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		return fmt.Errorf("kickbase: login (%s): %w", apiErr.String(), domain.ErrUnauthorized)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("kickbase: login: HTTP %d: %s", status, bodyPreview(body))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("kickbase: login body: %w", domain.ErrMalformedResponse)
	}
	if resp.token() == "" {
		return fmt.Errorf("kickbase: login response has no token: %w", domain.ErrMalformedResponse)
	}

	c.token = resp.token()
	c.userName = resp.userName()
	return nil
}

// UserName returns the logged-in user's display name, if the login response
// carried one.
func (c *Client) UserName() string {
	return c.userName
}

// Authenticated reports whether a login token is set.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// FetchSnapshot retrieves the league's transfer market and budget as one
// immutable snapshot. Parsing follows the documented field names only; any
// other body shape is domain.ErrMalformedResponse, never guessed at.
func (c *Client) FetchSnapshot(ctx context.Context, leagueID string) (domain.MarketSnapshot, error) {
	path := fmt.Sprintf("/v4/leagues/%s/market", url.PathEscape(leagueID))

	status, body, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("kickbase: fetch market: %w", err)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		return domain.MarketSnapshot{}, fmt.Errorf("kickbase: fetch market (%s): %w", apiErr.String(), domain.ErrUnauthorized)
	}
	if status < 200 || status >= 300 {
		return domain.MarketSnapshot{}, fmt.Errorf("kickbase: fetch market: HTTP %d: %s", status, bodyPreview(body))
	}

	var resp marketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("kickbase: market body: %w", domain.ErrMalformedResponse)
	}

	snap := domain.MarketSnapshot{
		LeagueID:  leagueID,
		Budget:    int64(resp.Budget),
		FetchedAt: time.Now().UTC(),
		Listings:  make([]domain.Listing, 0, len(resp.Items)),
	}
	for _, it := range resp.Items {
		snap.Listings = append(snap.Listings, domain.Listing{
			ID:               string(it.ID),
			FirstName:        it.FirstName,
			LastName:         it.LastName,
			MarketValue:      int64(it.MarketValue),
			TrendFlag:        it.TrendFlag,
			SecondsRemaining: int64(it.SecondsRemaining),
		})
	}
	return snap, nil
}

// Do builds, sends, and reads one HTTP request against the API, returning the
// raw status and body. It applies default headers and the bearer token but
// performs no status mapping; callers that probe endpoint shapes own the
// interpretation of status codes.
func (c *Client) Do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// bodyPreview truncates a response body for error messages.
func bodyPreview(body []byte) string {
	const max = 500
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"case-mirror/core/mirror"
)

// Client defines the interface for registry operations.
type Client interface {
	// FetchPage retrieves one listing page ordered by ascending id.
	FetchPage(ctx context.Context, limit, offset int) (mirror.Page, error)
	// Pages opens an iterator over the full listing starting at offset zero.
	Pages() mirror.PageIter
	// Get retrieves a single case.
	Get(ctx context.Context, id int64) (*Case, error)
	// Create registers a new case.
	Create(ctx context.Context, in CaseCreate) (*Case, error)
	// Update changes an existing case.
	Update(ctx context.Context, id int64, in CaseUpdate) (*Case, error)
	// Delete removes a case from the registry.
	Delete(ctx context.Context, id int64) error
}

// NewClient creates a new registry client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration, // TLS Handshake timeout
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration, // Wait for first response byte timeout
	}

	limit := cfg.PageLimit
	if limit <= 0 {
		limit = 1000
	}

	return &httpClient{
		base:  strings.TrimRight(cfg.ApiURI, "/"),
		auth:  fmt.Sprintf("apikey %s:%s", cfg.ApiUser, cfg.ApiKey),
		limit: limit,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}, nil
}

type httpClient struct {
	base  string
	auth  string
	limit int
	http  *http.Client
}

func (c *httpClient) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	return resp, nil
}

func (c *httpClient) FetchPage(ctx context.Context, limit, offset int) (mirror.Page, error) {
	path := fmt.Sprintf("/case/?limit=%d&offset=%d", limit, offset)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return mirror.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mirror.Page{}, errorFromResponse(resp)
	}

	var envelope pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return mirror.Page{}, fmt.Errorf("decode listing page: %w", err)
	}

	page := mirror.Page{
		Records: make([]mirror.Record, 0, len(envelope.Objects)),
		HasMore: envelope.Meta.Next != nil && *envelope.Meta.Next != "",
	}
	for _, raw := range envelope.Objects {
		var keys recordKeys
		if err := json.Unmarshal(raw, &keys); err != nil {
			return mirror.Page{}, fmt.Errorf("decode listing object: %w", err)
		}
		page.Records = append(page.Records, mirror.Record{
			ID:      keys.ID,
			Version: keys.LogicalTimestamp,
			Payload: raw,
		})
	}
	return page, nil
}

func (c *httpClient) Pages() mirror.PageIter {
	return &pageIter{client: c, limit: c.limit}
}

// pageIter advances the listing offset by the page limit until a page
// reports no continuation.
type pageIter struct {
	client *httpClient
	limit  int
	offset int
	done   bool
}

func (it *pageIter) Next(ctx context.Context) (mirror.Page, bool, error) {
	if it.done {
		return mirror.Page{}, false, nil
	}
	page, err := it.client.FetchPage(ctx, it.limit, it.offset)
	if err != nil {
		return mirror.Page{}, false, err
	}
	if !page.HasMore {
		it.done = true
	}
	it.offset += it.limit
	return page, true, nil
}

func (c *httpClient) Get(ctx context.Context, id int64) (*Case, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/case/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return caseFromResponse(resp)
}

func (c *httpClient) Create(ctx context.Context, in CaseCreate) (*Case, error) {
	resp, err := c.do(ctx, http.MethodPost, "/case/", in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return caseFromResponse(resp)
}

func (c *httpClient) Update(ctx context.Context, id int64, in CaseUpdate) (*Case, error) {
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/case/%d/", id), in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return caseFromResponse(resp)
}

func (c *httpClient) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/case/%d/", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	return nil
}

func caseFromResponse(resp *http.Response) (*Case, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return decodeCase(data)
}

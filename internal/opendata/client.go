// Package opendata provides a minimal client for Opendatasoft Explore v2.1
// catalogs such as data.sbb.ch.
package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"odmcp/internal/tools"
)

// DefaultBaseURL is the Swiss Federal Railways open data catalog.
const DefaultBaseURL = "https://data.sbb.ch/api/explore/v2.1"

// Client is an HTTP client for dataset record queries.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a new client. If httpClient is nil, a default with a 15s
// timeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// Query carries the supported record query parameters. Zero-valued optional
// fields are omitted from the request.
type Query struct {
	Select          string
	Where           string
	GroupBy         string
	OrderBy         string
	Limit           int
	Offset          int
	Refine          string
	Exclude         string
	Lang            string
	Timezone        string
	IncludeLinks    bool
	IncludeAppMetas bool
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("select", q.Select)
	set("where", q.Where)
	set("group_by", q.GroupBy)
	set("order_by", q.OrderBy)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	set("refine", q.Refine)
	set("exclude", q.Exclude)
	set("lang", q.Lang)
	set("timezone", q.Timezone)
	if q.IncludeLinks {
		v.Set("include_links", "true")
	}
	if q.IncludeAppMetas {
		v.Set("include_app_metas", "true")
	}
	return v
}

// Records fetches one page of records from the named dataset and decodes the
// response body into out, which must match the dataset's result shape.
// A non-2xx status or an unreachable catalog yields an UPSTREAM_UNAVAILABLE
// error; a body that does not decode yields UPSTREAM_MALFORMED_RESPONSE.
func (c *Client) Records(ctx context.Context, dataset string, q Query, out any) error {
	endpoint := fmt.Sprintf("%s/catalog/datasets/%s/records", c.BaseURL, url.PathEscape(dataset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return tools.NewInternalError("building records request", err)
	}
	req.URL.RawQuery = q.Values().Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return tools.NewUpstreamUnavailableError(fmt.Sprintf("dataset %s is unreachable", dataset), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for the log line; the status is what matters.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return tools.NewUpstreamUnavailableError(
			fmt.Sprintf("dataset %s returned status %d: %s", dataset, resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return tools.NewUpstreamMalformedError(fmt.Sprintf("dataset %s returned an undecodable payload", dataset), err)
	}
	return nil
}

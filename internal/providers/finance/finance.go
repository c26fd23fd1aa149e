// Package finance exposes predefined Yahoo Finance stock screeners as a
// callable tool.
package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

// DefaultBaseURL is the Yahoo Finance screener API.
const DefaultBaseURL = "https://query2.finance.yahoo.com/v1/finance"

// Client is an HTTP client for predefined screener queries.
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

// ScreenerParams are the arguments of the stock-screendata tool.
type ScreenerParams struct {
	Screener string `json:"screener,omitempty" jsonschema:"default=day_gainers,enum=aggressive_small_caps,enum=day_gainers,enum=day_losers,enum=growth_technology_stocks,enum=most_actives,enum=most_shorted_stocks,enum=small_cap_gainers,enum=undervalued_growth_stocks,enum=undervalued_large_caps,enum=conservative_foreign_funds,enum=high_yield_bond,enum=portfolio_anchors,enum=solid_large_growth_funds,enum=solid_midcap_growth_funds,enum=top_mutual_funds,description=Predefined screener to run"`
	Count    int    `json:"count,omitempty" jsonschema:"minimum=1,maximum=100,default=10,description=Maximum number of quotes to return (1-100)"`
}

// Quote is one screened instrument. The upstream payload carries many more
// fields; this is the subset the tool renders.
type Quote struct {
	Symbol                      string  `json:"symbol,omitempty"`
	ShortName                   string  `json:"shortName,omitempty"`
	LongName                    string  `json:"longName,omitempty"`
	DisplayName                 string  `json:"displayName,omitempty"`
	Currency                    string  `json:"currency,omitempty"`
	FinancialCurrency           string  `json:"financialCurrency,omitempty"`
	Exchange                    string  `json:"exchange,omitempty"`
	FullExchangeName            string  `json:"fullExchangeName,omitempty"`
	Market                      string  `json:"market,omitempty"`
	MarketState                 string  `json:"marketState,omitempty"`
	QuoteType                   string  `json:"quoteType,omitempty"`
	RegularMarketPrice          float64 `json:"regularMarketPrice,omitempty"`
	RegularMarketChange         float64 `json:"regularMarketChange,omitempty"`
	RegularMarketChangePercent  float64 `json:"regularMarketChangePercent,omitempty"`
	RegularMarketDayHigh        float64 `json:"regularMarketDayHigh,omitempty"`
	RegularMarketDayLow         float64 `json:"regularMarketDayLow,omitempty"`
	RegularMarketDayRange       string  `json:"regularMarketDayRange,omitempty"`
	RegularMarketOpen           float64 `json:"regularMarketOpen,omitempty"`
	RegularMarketPreviousClose  float64 `json:"regularMarketPreviousClose,omitempty"`
	RegularMarketVolume         int64   `json:"regularMarketVolume,omitempty"`
	AverageDailyVolume3Month    int64   `json:"averageDailyVolume3Month,omitempty"`
	AverageDailyVolume10Day     int64   `json:"averageDailyVolume10Day,omitempty"`
	FiftyTwoWeekLow             float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh            float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekRange           string  `json:"fiftyTwoWeekRange,omitempty"`
	FiftyTwoWeekChangePercent   float64 `json:"fiftyTwoWeekChangePercent,omitempty"`
	FiftyDayAverage             float64 `json:"fiftyDayAverage,omitempty"`
	TwoHundredDayAverage        float64 `json:"twoHundredDayAverage,omitempty"`
	MarketCap                   int64   `json:"marketCap,omitempty"`
	ForwardPE                   float64 `json:"forwardPE,omitempty"`
	PriceToBook                 float64 `json:"priceToBook,omitempty"`
	BookValue                   float64 `json:"bookValue,omitempty"`
	EpsTrailingTwelveMonths     float64 `json:"epsTrailingTwelveMonths,omitempty"`
	EpsForward                  float64 `json:"epsForward,omitempty"`
	SharesOutstanding           int64   `json:"sharesOutstanding,omitempty"`
	TrailingAnnualDividendRate  float64 `json:"trailingAnnualDividendRate,omitempty"`
	TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield,omitempty"`
	Tradeable                   bool    `json:"tradeable,omitempty"`
}

// ScreenerResponse is the rendered screener result.
type ScreenerResponse struct {
	Count  int     `json:"count"`
	Quotes []Quote `json:"quotes"`
}

// screenerEnvelope is the upstream wire shape.
type screenerEnvelope struct {
	Finance struct {
		Result []ScreenerResponse `json:"result"`
		Error  any                `json:"error"`
	} `json:"finance"`
}

// Screen runs a predefined screener and returns its quotes.
func (c *Client) Screen(ctx context.Context, screener string, count int) (*ScreenerResponse, error) {
	endpoint := c.BaseURL + "/screener/predefined/saved"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, tools.NewInternalError("building screener request", err)
	}
	q := url.Values{}
	q.Set("scrIds", screener)
	q.Set("count", strconv.Itoa(count))
	q.Set("formatted", "false")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "odmcp/0.1")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, tools.NewUpstreamUnavailableError(fmt.Sprintf("screener %s is unreachable", screener), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, tools.NewUpstreamUnavailableError(
			fmt.Sprintf("screener %s returned status %d", screener, resp.StatusCode), nil)
	}

	var envelope screenerEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, tools.NewUpstreamMalformedError(
			fmt.Sprintf("screener %s returned an undecodable payload", screener), err)
	}
	if len(envelope.Finance.Result) == 0 {
		return nil, tools.NewUpstreamMalformedError(
			fmt.Sprintf("screener %s returned no result set", screener), nil)
	}
	return &envelope.Finance.Result[0], nil
}

// Register adds the screener tool to the registry.
func Register(reg *tools.Registry, client *Client) error {
	desc := tools.Descriptor{
		Name:        "stock-screendata",
		Description: "Run a predefined stock screener and return the matching quotes",
		InputSchema: schema.ReflectFor[ScreenerParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p ScreenerParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}

		resp, err := client.Screen(ctx, p.Screener, p.Count)
		if err != nil {
			return nil, err
		}
		res, rerr := tools.NewJSONResult(resp)
		if rerr != nil {
			return nil, tools.NewInternalError("rendering result", rerr)
		}
		return res, nil
	}

	return reg.Register(desc, handler)
}

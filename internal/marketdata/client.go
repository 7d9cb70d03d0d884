// Package marketdata fetches daily close prices from a Yahoo-style
// chart API. It normalises ticker symbols and converts responses into
// plain float slices for the analytics packages.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrEmptySymbol = errors.New("ticker symbol must not be empty")
	ErrNoData      = errors.New("no price data returned for symbol")
)

// StatusError is returned when the upstream provider answers with a
// non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market data provider returned status %d", e.Code)
}

// Source provides daily close series and sector classification for
// ticker symbols. Implementations other than Client are used in tests.
type Source interface {
	DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
	Sector(ctx context.Context, symbol string) string
}

// Client is a thin JSON-over-HTTP market data client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client for the provider at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  "smartviz-go/1.0",
	}
}

// NormalizeSymbol trims and upper-cases a ticker symbol. Some exchanges
// are case sensitive upstream and form input tends to carry whitespace,
// so cleaning is centralised here.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", ErrEmptySymbol
	}
	return symbol, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses returns up to days of the most recent adjusted daily
// closes for symbol, oldest first. Missing observations are dropped.
func (c *Client) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=%s", symbol, rangeFor(days))

	var resp chartResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Adjclose) == 0 {
		return nil, ErrNoData
	}

	raw := resp.Chart.Result[0].Indicators.Adjclose[0].Adjclose
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v != nil {
			closes = append(closes, *v)
		}
	}
	if len(closes) == 0 {
		return nil, ErrNoData
	}

	if len(closes) > days+1 {
		closes = closes[len(closes)-days-1:]
	}
	return closes, nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// Sector returns the sector classification for a symbol, falling back
// to "Unknown" on any lookup failure.
func (c *Client) Sector(ctx context.Context, symbol string) string {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return "Unknown"
	}

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=assetProfile", symbol)

	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return "Unknown"
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return "Unknown"
	}

	profile := resp.QuoteSummary.Result[0].AssetProfile
	if profile.Sector != "" {
		return profile.Sector
	}
	if profile.Industry != "" {
		return profile.Industry
	}
	return "Unknown"
}

// getJSON performs a GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// rangeFor maps an observation count to the provider's coarse range
// buckets; DailyCloses truncates the response to the exact count.
func rangeFor(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 182:
		return "6mo"
	default:
		return "1y"
	}
}

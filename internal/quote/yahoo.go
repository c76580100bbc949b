package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public
// quoteSummary API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with the given
// per-request timeout.
func NewYahooFetcher(timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// quoteSummary is the response structure from the Yahoo quoteSummary API.
type quoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice struct {
					Raw *float64 `json:"raw"`
				} `json:"regularMarketPrice"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchPrice fetches the regular market price for one exact ticker.
func (f *YahooFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price", f.BaseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo: status %d for %s", resp.StatusCode, symbol)
	}

	var summary quoteSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return 0, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return 0, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return 0, fmt.Errorf("yahoo: no quote returned for %s", symbol)
	}

	price := summary.QuoteSummary.Result[0].Price.RegularMarketPrice.Raw
	if price == nil {
		return 0, fmt.Errorf("yahoo: quote for %s has no price", symbol)
	}
	return *price, nil
}

package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooProvider implements Provider on top of the Yahoo Finance chart API.
type YahooProvider struct {
	client *resty.Client
}

// NewYahooProvider builds a provider rooted at baseURL
// (e.g. "https://query1.finance.yahoo.com").
func NewYahooProvider(baseURL string, timeout time.Duration) *YahooProvider {
	client := resty.New().
		SetBaseURL(baseURL + "/v8/finance/chart").
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": userAgent,
		})
	return &YahooProvider{client: client}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	// the chart meta block has no market cap or sector
	Meta struct {
		Symbol    string `json:"symbol"`
		LongName  string `json:"longName"`
		ShortName string `json:"shortName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

func (y *YahooProvider) fetchChart(ctx context.Context, symbol, rng string) (*chartResult, error) {
	var body, errBody chartResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"range":    rng,
			"interval": "1d",
		}).
		SetResult(&body).
		SetError(&errBody).
		Get("/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("yahoo request %s: %w", symbol, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNotFound)
	}
	if resp.IsError() {
		if e := errBody.Chart.Error; e != nil {
			return nil, fmt.Errorf("yahoo %s: status %d: %s", symbol, resp.StatusCode(), e.Description)
		}
		return nil, fmt.Errorf("yahoo %s: status %d", symbol, resp.StatusCode())
	}
	if e := body.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo %s: api error %s: %s", symbol, e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return &body.Chart.Result[0], nil
}

// GetMetadata reads the instrument name from the chart metadata block,
// falling back to the short name and then the symbol itself.
// MarketCap and Sector are always nil.
func (y *YahooProvider) GetMetadata(ctx context.Context, symbol string) (Metadata, error) {
	res, err := y.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return Metadata{}, err
	}
	return res.metadata(symbol), nil
}

// GetRecentHistory requests a five day window so weekends and holidays still
// leave two sessions, drops null bars, and keeps the last days bars.
func (y *YahooProvider) GetRecentHistory(ctx context.Context, symbol string, days int) ([]Bar, error) {
	res, err := y.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return nil, err
	}
	return res.bars(symbol, days)
}

// GetSnapshot answers GetMetadata and GetRecentHistory from one five day chart request.
func (y *YahooProvider) GetSnapshot(ctx context.Context, symbol string, days int) (Metadata, []Bar, error) {
	res, err := y.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return Metadata{}, nil, err
	}
	bars, err := res.bars(symbol, days)
	if err != nil {
		return Metadata{}, nil, err
	}
	return res.metadata(symbol), bars, nil
}

func (r *chartResult) metadata(symbol string) Metadata {
	name := r.Meta.LongName
	if name == "" {
		name = r.Meta.ShortName
	}
	if name == "" {
		name = symbol
	}
	return Metadata{CompanyName: name}
}

func (r *chartResult) bars(symbol string, days int) ([]Bar, error) {
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	q := r.Indicators.Quote[0]

	bars := make([]Bar, 0, len(q.Close))
	for i, c := range q.Close {
		if c == nil || *c <= 0 {
			continue // null bar (halt, holiday)
		}
		b := Bar{Close: *c}
		if i < len(q.Volume) && q.Volume[i] != nil {
			b.Volume = *q.Volume[i]
		}
		bars = append(bars, b)
	}
	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

var _ SnapshotProvider = (*YahooProvider)(nil)

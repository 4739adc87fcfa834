// Package ft resolves security prices through the FT markets chart API.
// The API is keyed by an internal symbol id (xid) which is not public;
// it is scraped from the human-facing tearsheet page and cached for the
// life of the process.
package ft

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"pricesource/internal/httpx"
	"pricesource/internal/source"
)

const (
	defaultTearsheetURL = "https://markets.ft.com/data/equities/tearsheet/summary"
	defaultChartURL     = "https://markets.ft.com/data/chartapi/series"

	// latestLookbackDays bridges weekends and single holidays when asking
	// for "now".
	latestLookbackDays = 5
	// historyFloorDays guarantees enough data when the requested time is
	// close to now.
	historyFloorDays = 30
	// lookbackBufferDays pads the window for non-trading days near the
	// requested time.
	lookbackBufferDays = 7
	// maxStaleness is the widest gap tolerated between the requested time
	// and the matched sample.
	maxStaleness = 7 * 24 * time.Hour
)

type Config struct {
	Name         string
	TearsheetURL string
	ChartURL     string
}

// Source implements source.Source against the FT chart API.
type Source struct {
	cfg    Config
	client *httpx.Client

	// xids caches ticker -> internal id for the process lifetime.
	// Concurrent first resolution of the same ticker may fetch twice;
	// last writer wins and both get a correct id.
	mu   sync.RWMutex
	xids map[string]string
}

func New(cfg Config, hc *httpx.Client) *Source {
	if cfg.Name == "" {
		cfg.Name = "FT"
	}
	if cfg.TearsheetURL == "" {
		cfg.TearsheetURL = defaultTearsheetURL
	}
	if cfg.ChartURL == "" {
		cfg.ChartURL = defaultChartURL
	}
	return &Source{cfg: cfg, client: hc, xids: map[string]string{}}
}

func (s *Source) Name() string { return s.cfg.Name }

// LatestPrice returns the newest close for ticker, or (nil, nil) when the
// provider has no recent samples.
func (s *Source) LatestPrice(ctx context.Context, ticker string) (*source.Price, error) {
	hist, err := s.fetchHistory(ctx, ticker, latestLookbackDays)
	if err != nil {
		return nil, source.Wrap(s.cfg.Name, ticker, nil, err)
	}
	last, ok := source.Latest(hist)
	if !ok {
		return nil, nil
	}
	return &source.Price{Price: last.Price, Time: last.Time}, nil
}

// HistoricalPrice returns the close nearest at-or-before t. The lookback
// is computed from now so the fetched window comfortably covers t, and a
// match further than maxStaleness before t is treated as not found.
func (s *Source) HistoricalPrice(ctx context.Context, ticker string, t time.Time) (*source.Price, error) {
	days := int(time.Now().UTC().Sub(t).Hours()/24) + lookbackBufferDays
	if days < 1 {
		days = 1
	}
	if days < historyFloorDays {
		days = historyFloorDays
	}
	hist, err := s.fetchHistory(ctx, ticker, days)
	if err != nil {
		return nil, source.Wrap(s.cfg.Name, ticker, &t, err)
	}
	hit, ok := source.AsOf(hist, t, maxStaleness)
	if !ok {
		return nil, nil
	}
	return &source.Price{Price: hit.Price, Time: hit.Time}, nil
}

func (s *Source) resolveXID(ctx context.Context, ticker string) (string, error) {
	s.mu.RLock()
	xid, ok := s.xids[ticker]
	s.mu.RUnlock()
	if ok {
		return xid, nil
	}

	content, err := s.client.GetText(ctx, s.cfg.TearsheetURL, url.Values{"s": {ticker}})
	if err != nil {
		return "", source.Errorf(source.KindTransport, "tearsheet: %w", err)
	}
	xid, ok = ExtractXID(content)
	if !ok {
		return "", source.Errorf(source.KindResolution, "could not determine internal id from tearsheet")
	}

	s.mu.Lock()
	s.xids[ticker] = xid
	s.mu.Unlock()
	return xid, nil
}

type chartElement struct {
	Type   string `json:"Type"`
	Symbol string `json:"Symbol"`
}

type chartRequest struct {
	Days              int            `json:"days"`
	DataNormalized    bool           `json:"dataNormalized"`
	DataPeriod        string         `json:"dataPeriod"`
	DataInterval      int            `json:"dataInterval"`
	Realtime          bool           `json:"realtime"`
	YFormat           string         `json:"yFormat"`
	TimeServiceFormat string         `json:"timeServiceFormat"`
	ReturnDateType    string         `json:"returnDateType"`
	Elements          []chartElement `json:"elements"`
}

type chartResponse struct {
	Dates    []string `json:"Dates"`
	Elements []struct {
		Type            string `json:"Type"`
		ComponentSeries []struct {
			Type string `json:"Type"`
			// Values holds pointers: the API emits null for sessions
			// without a close.
			Values []*json.Number `json:"Values"`
		} `json:"ComponentSeries"`
	} `json:"Elements"`
}

// fetchHistory pulls the close series for the last `days` days and
// normalizes it into samples. Individual rows with a null value or an
// unparseable date are skipped, never fatal; an empty or close-less
// payload yields an empty series with no error.
func (s *Source) fetchHistory(ctx context.Context, ticker string, days int) (source.Series, error) {
	xid, err := s.resolveXID(ctx, ticker)
	if err != nil {
		return nil, err
	}

	payload := chartRequest{
		Days:              days,
		DataPeriod:        "Day",
		DataInterval:      1,
		YFormat:           "0.###",
		TimeServiceFormat: "JSON",
		ReturnDateType:    "ISO8601",
		Elements:          []chartElement{{Type: "price", Symbol: xid}},
	}
	body, err := s.client.PostJSON(ctx, s.cfg.ChartURL, payload)
	if err != nil {
		return nil, source.Errorf(source.KindTransport, "chart api: %w", err)
	}

	var resp chartResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, source.Errorf(source.KindParse, "decode chart response: %w", err)
	}
	if len(resp.Dates) == 0 || len(resp.Elements) == 0 {
		return nil, nil
	}

	var closes []*json.Number
	for _, el := range resp.Elements {
		if el.Type != "price" {
			continue
		}
		for _, cs := range el.ComponentSeries {
			if cs.Type == "Close" {
				closes = cs.Values
				break
			}
		}
		break
	}

	out := make(source.Series, 0, len(resp.Dates))
	for i, ds := range resp.Dates {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		ts, ok := parseChartDate(ds)
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(closes[i].String())
		if err != nil || price.IsNegative() {
			continue
		}
		out = append(out, source.Sample{Time: ts, Price: price})
	}
	return out, nil
}

// parseChartDate handles the API's offset-less ISO-8601 dates
// ("2025-12-29T00:00:00"), which are documented to be UTC, plus the rare
// variant that carries an explicit offset.
func parseChartDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

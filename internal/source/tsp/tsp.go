// Package tsp resolves Thrift Savings Plan fund prices from the TSP
// fund-price-history CSV download.
package tsp

import (
	"context"
	"encoding/csv"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pricesource/internal/httpx"
	"pricesource/internal/source"
)

const (
	defaultURL = "https://www.tsp.gov/data/fund-price-history.csv"

	// All TSP funds are priced in USD.
	currency = "USD"

	// lookbackDays covers market closures near the requested date.
	lookbackDays = 14
)

// Daily prices are keyed to the trading-day close, 16:00 US Eastern.
// The offset is fixed at UTC-4, not DST-aware.
var closeZone = time.FixedZone("America/New_York", -4*60*60)

// funds maps the fund codes accepted by this source to the CSV column
// headers they are published under, in column order.
var funds = []struct {
	Code   string
	Column string
}{
	{"LInco", "L Income"},
	{"L2030", "L 2030"},
	{"L2035", "L 2035"},
	{"L2040", "L 2040"},
	{"L2045", "L 2045"},
	{"L2050", "L 2050"},
	{"L2055", "L 2055"},
	{"L2060", "L 2060"},
	{"L2065", "L 2065"},
	{"L2070", "L 2070"},
	{"L2075", "L 2075"},
	{"GFund", "G Fund"},
	{"FFund", "F Fund"},
	{"CFund", "C Fund"},
	{"SFund", "S Fund"},
	{"IFund", "I Fund"},
}

// Funds lists the valid fund codes.
func Funds() []string {
	out := make([]string, len(funds))
	for i, f := range funds {
		out[i] = f.Code
	}
	return out
}

func fundIndex(code string) int {
	for i, f := range funds {
		if f.Code == code {
			return i
		}
	}
	return -1
}

type Config struct {
	Name string
	URL  string
}

// Source implements source.Source against the TSP CSV feed.
type Source struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Source {
	if cfg.Name == "" {
		cfg.Name = "TSP"
	}
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	return &Source{cfg: cfg, client: hc}
}

func (s *Source) Name() string { return s.cfg.Name }

// LatestPrice is a historical lookup at now; the feed has no separate
// realtime endpoint.
func (s *Source) LatestPrice(ctx context.Context, fund string) (*source.Price, error) {
	rec, err := s.historicalPrice(ctx, fund, time.Now().In(closeZone))
	if err != nil {
		return nil, source.Wrap(s.cfg.Name, fund, nil, err)
	}
	return rec, nil
}

func (s *Source) HistoricalPrice(ctx context.Context, fund string, t time.Time) (*source.Price, error) {
	rec, err := s.historicalPrice(ctx, fund, t)
	if err != nil {
		return nil, source.Wrap(s.cfg.Name, fund, &t, err)
	}
	return rec, nil
}

func (s *Source) historicalPrice(ctx context.Context, fund string, t time.Time) (*source.Price, error) {
	idx := fundIndex(fund)
	if idx < 0 {
		return nil, source.Errorf(source.KindValidation,
			"invalid fund %q, valid funds: %s", fund, strings.Join(Funds(), ", "))
	}

	local := t.In(closeZone)
	params := url.Values{
		"startdate": {local.AddDate(0, 0, -lookbackDays).Format("20060102")},
		"enddate":   {local.Format("20060102")},
		"download":  {"0"},
		"Lfunds":    {"1"},
		"InvFunds":  {"1"},
	}
	body, err := s.client.GetText(ctx, s.cfg.URL, params)
	if err != nil {
		return nil, source.Errorf(source.KindTransport, "fund price history: %w", err)
	}

	rows, err := parseHistory(body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// Rows are newest first; the head is the trade day for t.
	head := rows[0]
	return &source.Price{Price: head.Prices[idx], Time: head.Time, Currency: currency}, nil
}

type row struct {
	Time   time.Time
	Prices []decimal.Decimal
}

// parseHistory decodes the CSV payload into rows sorted newest first.
// The feed never quotes fields, so stray quote characters are read
// literally (LazyQuotes). Rows with a blank date are skipped; a blank
// price cell means zero, not a missing row.
func parseHistory(text string) ([]row, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, source.Errorf(source.KindParse, "read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		col[strings.TrimSpace(h)] = i
	}
	dateCol, ok := col["Date"]
	if !ok {
		return nil, source.Errorf(source.KindParse, "missing Date column")
	}
	idx := make([]int, len(funds))
	for i, f := range funds {
		c, ok := col[f.Column]
		if !ok {
			return nil, source.Errorf(source.KindParse, "missing column %q", f.Column)
		}
		idx[i] = c
	}

	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if dateCol >= len(rec) || strings.TrimSpace(rec[dateCol]) == "" {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(rec[dateCol]), closeZone)
		if err != nil {
			return nil, source.Errorf(source.KindParse, "parse date %q: %w", rec[dateCol], err)
		}
		ts := time.Date(day.Year(), day.Month(), day.Day(), 16, 0, 0, 0, closeZone)

		prices := make([]decimal.Decimal, len(funds))
		for i, c := range idx {
			cell := ""
			if c < len(rec) {
				cell = strings.TrimSpace(rec[c])
			}
			if cell == "" {
				continue // zero value
			}
			v, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, source.Errorf(source.KindParse, "parse price %q for %s: %w", cell, funds[i].Code, err)
			}
			prices[i] = v
		}
		rows = append(rows, row{Time: ts, Prices: prices})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.After(rows[j].Time) })
	return rows, nil
}

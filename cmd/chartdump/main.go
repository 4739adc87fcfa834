package main

import (
    "bufio"
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "net/url"
    "os"
    "time"

    "pricesource/internal/config"
    "pricesource/internal/httpx"
    "pricesource/internal/source/ft"
)

// chartdump resolves the xid for each ticker argument and dumps the raw
// chart API payload, one JSON object per line. Useful for capturing test
// fixtures without wiring up the full source.
func main() {
    var (
        outPath    string
        configPath string
        days       int
        timeout    int
    )
    flag.StringVar(&outPath, "out", "", "output file (default stdout)")
    flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
    flag.IntVar(&days, "days", 30, "lookback days to request")
    flag.IntVar(&timeout, "timeout", 10, "request timeout seconds")
    flag.Parse()

    if flag.NArg() == 0 {
        fmt.Fprintln(os.Stderr, "usage: chartdump [-out file] [-days n] TICKER...")
        os.Exit(2)
    }

    cfg, err := config.Load(configPath)
    if err != nil {
        fmt.Fprintf(os.Stderr, "config: %v\n", err)
        os.Exit(1)
    }
    tearsheetURL := cfg.FT.TearsheetURL
    if tearsheetURL == "" {
        tearsheetURL = "https://markets.ft.com/data/equities/tearsheet/summary"
    }
    chartURL := cfg.FT.ChartURL
    if chartURL == "" {
        chartURL = "https://markets.ft.com/data/chartapi/series"
    }

    out := os.Stdout
    if outPath != "" {
        f, err := os.Create(outPath)
        if err != nil {
            fmt.Fprintf(os.Stderr, "create %s: %v\n", outPath, err)
            os.Exit(1)
        }
        defer f.Close()
        out = f
    }
    w := bufio.NewWriter(out)
    defer w.Flush()

    hc := httpx.New(time.Duration(timeout) * time.Second)
    ctx := context.Background()

    for _, ticker := range flag.Args() {
        markup, err := hc.GetText(ctx, tearsheetURL, url.Values{"s": {ticker}})
        if err != nil {
            fmt.Fprintf(os.Stderr, "%s: tearsheet: %v\n", ticker, err)
            continue
        }
        xid, ok := ft.ExtractXID(markup)
        if !ok {
            fmt.Fprintf(os.Stderr, "%s: no xid in tearsheet\n", ticker)
            continue
        }

        payload := map[string]any{
            "days":              days,
            "dataNormalized":    false,
            "dataPeriod":        "Day",
            "dataInterval":      1,
            "realtime":          false,
            "yFormat":           "0.###",
            "timeServiceFormat": "JSON",
            "returnDateType":    "ISO8601",
            "elements":          []map[string]any{{"Type": "price", "Symbol": xid}},
        }
        body, err := hc.PostJSON(ctx, chartURL, payload)
        if err != nil {
            fmt.Fprintf(os.Stderr, "%s: chart api: %v\n", ticker, err)
            continue
        }

        line, _ := json.Marshal(map[string]any{
            "ticker": ticker,
            "xid":    xid,
            "chart":  json.RawMessage(body),
        })
        fmt.Fprintln(w, string(line))
    }
}

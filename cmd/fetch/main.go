package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "os"
    "time"

    "go.uber.org/zap"

    "pricesource/internal/config"
    "pricesource/internal/httpx"
    "pricesource/internal/source"
    "pricesource/internal/source/ft"
    "pricesource/internal/source/tsp"
)

// fetch resolves one price from one source and prints it as JSON.
// Exit status 1 covers both failures and "no price found" so scripts can
// tell success apart without parsing.
func main() {
    var (
        sourceName string
        symbol     string
        timeStr    string
        configPath string
        timeout    int
    )
    flag.StringVar(&sourceName, "source", "ft", "source to query (ft or tsp)")
    flag.StringVar(&symbol, "symbol", "", "ticker or fund code")
    flag.StringVar(&timeStr, "time", "", "historical time (RFC3339 or YYYY-MM-DD); empty for latest")
    flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
    flag.IntVar(&timeout, "timeout", 10, "request timeout seconds")
    flag.Parse()

    logger, err := zap.NewDevelopment()
    if err != nil {
        os.Exit(1)
    }
    defer logger.Sync()
    sugar := logger.Sugar()

    if symbol == "" {
        sugar.Fatal("missing -symbol")
    }
    cfg, err := config.Load(configPath)
    if err != nil {
        sugar.Fatalf("config: %v", err)
    }

    hc := httpx.New(time.Duration(timeout) * time.Second)
    var src source.Source
    switch sourceName {
    case "ft":
        src = ft.New(ft.Config{TearsheetURL: cfg.FT.TearsheetURL, ChartURL: cfg.FT.ChartURL}, hc)
    case "tsp":
        src = tsp.New(tsp.Config{URL: cfg.TSP.URL}, hc)
    default:
        sugar.Fatalf("unknown source %q (ft or tsp)", sourceName)
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout+5)*time.Second)
    defer cancel()

    var rec *source.Price
    if timeStr == "" {
        rec, err = src.LatestPrice(ctx, symbol)
    } else {
        var at time.Time
        at, err = parseTime(timeStr)
        if err != nil {
            sugar.Fatalf("invalid -time: %v", err)
        }
        rec, err = src.HistoricalPrice(ctx, symbol, at)
    }
    if err != nil {
        sugar.Fatalf("fetch: %v", err)
    }
    if rec == nil {
        fmt.Fprintf(os.Stderr, "no price found for %s\n", symbol)
        os.Exit(1)
    }
    if rec.Currency == "" {
        rec.Currency = cfg.DefaultCurrency
    }

    enc := json.NewEncoder(os.Stdout)
    enc.SetIndent("", "  ")
    _ = enc.Encode(rec)
}

func parseTime(s string) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, nil
    }
    return time.Parse("2006-01-02", s)
}

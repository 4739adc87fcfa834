package main

import (
    "context"
    "encoding/json"
    "net/http"
    "sort"
    "strings"
    "time"

    "github.com/shopspring/decimal"

    "pricesource/internal/aggregate"
    "pricesource/internal/source"
)

type priceResponse struct {
    Source   string          `json:"source"`
    Symbol   string          `json:"symbol"`
    Price    decimal.Decimal `json:"price"`
    Currency string          `json:"currency"`
    Time     time.Time       `json:"time"`
}

type errorResponse struct {
    Error string `json:"error"`
}

// writeLatest resolves the latest price. With name empty all sources are
// queried and the freshest record wins; otherwise only the named source.
func writeLatest(w http.ResponseWriter, ctx context.Context, sources map[string]source.Source, name, symbol, defaultCurrency string) {
    if strings.TrimSpace(symbol) == "" {
        writeJSONError(w, http.StatusBadRequest, "missing symbol query param")
        return
    }
    names, ok := selectSources(sources, name)
    if !ok {
        writeJSONError(w, http.StatusBadRequest, "unknown source "+name+", available: "+strings.Join(sourceNames(sources), ", "))
        return
    }

    var records []aggregate.Record
    var firstErr error
    for _, n := range names {
        rec, err := sources[n].LatestPrice(ctx, symbol)
        if err != nil {
            if firstErr == nil {
                firstErr = err
            }
            continue
        }
        if rec != nil {
            records = append(records, aggregate.Record{Source: n, Symbol: symbol, Price: *rec})
        }
    }

    best, ok := aggregate.Freshest(records)
    if !ok {
        if firstErr != nil {
            writeJSONError(w, statusFor(firstErr), firstErr.Error())
            return
        }
        writeJSONError(w, http.StatusNotFound, "no price found for "+symbol)
        return
    }
    writeRecord(w, best, defaultCurrency)
}

// writeHistorical resolves the price as of timeStr, which accepts RFC3339
// or a bare date (taken as UTC midnight). A source must be named.
func writeHistorical(w http.ResponseWriter, ctx context.Context, sources map[string]source.Source, name, symbol, timeStr, defaultCurrency string) {
    if strings.TrimSpace(symbol) == "" {
        writeJSONError(w, http.StatusBadRequest, "missing symbol query param")
        return
    }
    if strings.TrimSpace(name) == "" {
        writeJSONError(w, http.StatusBadRequest, "missing source query param, available: "+strings.Join(sourceNames(sources), ", "))
        return
    }
    s, ok := sources[name]
    if !ok {
        writeJSONError(w, http.StatusBadRequest, "unknown source "+name+", available: "+strings.Join(sourceNames(sources), ", "))
        return
    }
    at, err := parseTime(timeStr)
    if err != nil {
        writeJSONError(w, http.StatusBadRequest, "invalid time: "+err.Error())
        return
    }

    rec, err := s.HistoricalPrice(ctx, symbol, at)
    if err != nil {
        writeJSONError(w, statusFor(err), err.Error())
        return
    }
    if rec == nil {
        writeJSONError(w, http.StatusNotFound, "no price found for "+symbol+" at "+at.Format(time.RFC3339))
        return
    }
    writeRecord(w, aggregate.Record{Source: name, Symbol: symbol, Price: *rec}, defaultCurrency)
}

func parseTime(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if s == "" {
        return time.Now().UTC(), nil
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, nil
    }
    return time.Parse("2006-01-02", s)
}

func selectSources(sources map[string]source.Source, name string) ([]string, bool) {
    if strings.TrimSpace(name) == "" {
        return sourceNames(sources), true
    }
    if _, ok := sources[name]; !ok {
        return nil, false
    }
    return []string{name}, true
}

func sourceNames(sources map[string]source.Source) []string {
    names := make([]string, 0, len(sources))
    for n := range sources {
        names = append(names, n)
    }
    sort.Strings(names)
    return names
}

func writeRecord(w http.ResponseWriter, rec aggregate.Record, defaultCurrency string) {
    currency := rec.Price.Currency
    if currency == "" {
        currency = defaultCurrency
    }
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(priceResponse{
        Source:   rec.Source,
        Symbol:   rec.Symbol,
        Price:    rec.Price.Price,
        Currency: currency,
        Time:     rec.Price.Time,
    })
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func statusFor(err error) int {
    if source.IsKind(err, source.KindValidation) {
        return http.StatusBadRequest
    }
    return http.StatusBadGateway
}

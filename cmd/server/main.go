package main

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "pricesource/internal/config"
    "pricesource/internal/httpx"
    "pricesource/internal/source"
    "pricesource/internal/source/cache"
    "pricesource/internal/source/ft"
    "pricesource/internal/source/ratelimit"
    "pricesource/internal/source/tsp"
)

func main() {
    logger, err := zap.NewProduction()
    if err != nil {
        os.Exit(1)
    }
    defer logger.Sync()
    sugar := logger.Sugar()

    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    if err != nil {
        sugar.Fatalf("config: %v", err)
    }
    port := cfg.Server.Port

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    sources := buildSources(cfg, httpClient)
    if len(sources) == 0 {
        sugar.Fatal("no sources enabled")
    }
    for name := range sources {
        sugar.Infow("source enabled", "source", name)
    }

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/price/latest", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        q := r.URL.Query()
        writeLatest(w, r.Context(), sources, q.Get("source"), q.Get("symbol"), cfg.DefaultCurrency)
    })
    mux.HandleFunc("/price/historical", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        q := r.URL.Query()
        writeHistorical(w, r.Context(), sources, q.Get("source"), q.Get("symbol"), q.Get("time"), cfg.DefaultCurrency)
    })

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           withJSONHeaders(recoverPanic(mux)),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      30 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        sugar.Infow("server listening", "port", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            sugar.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
    sugar.Info("server stopped")
}

// buildSources assembles the enabled sources with their rate-limit and
// cache decorators.
func buildSources(cfg config.Config, hc *httpx.Client) map[string]source.Source {
    out := map[string]source.Source{}
    if cfg.FT.Enabled {
        var s source.Source = ft.New(ft.Config{
            TearsheetURL: cfg.FT.TearsheetURL,
            ChartURL:     cfg.FT.ChartURL,
        }, hc)
        s = withLimits(s, cfg.FT.MaxRequestsPerMinute, cfg.FT.Burst, cfg.FT.MinRequestIntervalSec)
        if cfg.FT.CacheTTLSeconds > 0 {
            s = &cache.Source{S: s, TTL: time.Duration(cfg.FT.CacheTTLSeconds) * time.Second, MaxItems: cfg.FT.CacheMaxItems}
        }
        out["ft"] = s
    }
    if cfg.TSP.Enabled {
        var s source.Source = tsp.New(tsp.Config{URL: cfg.TSP.URL}, hc)
        s = withLimits(s, cfg.TSP.MaxRequestsPerMinute, cfg.TSP.Burst, cfg.TSP.MinRequestIntervalSec)
        if cfg.TSP.CacheTTLSeconds > 0 {
            s = &cache.Source{S: s, TTL: time.Duration(cfg.TSP.CacheTTLSeconds) * time.Second, MaxItems: cfg.TSP.CacheMaxItems}
        }
        out["tsp"] = s
    }
    return out
}

// withLimits prefers a token bucket with burst when RPM is set, otherwise
// a minimum interval between calls.
func withLimits(s source.Source, rpm, burst, minIntervalSec int) source.Source {
    if rpm > 0 {
        if burst <= 0 {
            burst = 1
        }
        return &ratelimit.TokenBucketSource{S: s, TB: ratelimit.NewTokenBucket(float64(rpm)/60.0, burst)}
    }
    if minIntervalSec > 0 {
        return &ratelimit.MinInterval{S: s, Interval: time.Duration(minIntervalSec) * time.Second}
    }
    return s
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}

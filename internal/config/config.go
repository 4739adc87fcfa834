package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type FT struct {
    Enabled              bool   `json:"enabled"`
    TearsheetURL         string `json:"tearsheet_url"`
    ChartURL             string `json:"chart_url"`
    MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int   `json:"min_request_interval_sec"`
    Burst                int    `json:"burst"`
    CacheTTLSeconds      int    `json:"cache_ttl_sec"`
    CacheMaxItems        int    `json:"cache_max_items"`
}

type TSP struct {
    Enabled              bool   `json:"enabled"`
    URL                  string `json:"url"`
    MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int   `json:"min_request_interval_sec"`
    Burst                int    `json:"burst"`
    CacheTTLSeconds      int    `json:"cache_ttl_sec"`
    CacheMaxItems        int    `json:"cache_max_items"`
}

type Config struct {
    Server          Server `json:"server"`
    FT              FT     `json:"ft"`
    TSP             TSP    `json:"tsp"`
    DefaultCurrency string `json:"default_currency"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 10},
        FT: FT{
            Enabled:              true,
            MaxRequestsPerMinute: 30,
            Burst:                5,
            CacheTTLSeconds:      60,
            CacheMaxItems:        10000,
        },
        TSP: TSP{
            Enabled:              true,
            MaxRequestsPerMinute: 10,
            Burst:                2,
            CacheTTLSeconds:      300,
            CacheMaxItems:        100,
        },
        DefaultCurrency: "USD",
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("DEFAULT_CURRENCY"); v != "" { cfg.DefaultCurrency = v }

    if v := os.Getenv("FT_ENABLED"); v != "" { setBool(&cfg.FT.Enabled, v) }
    if v := os.Getenv("FT_TEARSHEET_URL"); v != "" { cfg.FT.TearsheetURL = v }
    if v := os.Getenv("FT_CHART_URL"); v != "" { cfg.FT.ChartURL = v }
    if v := os.Getenv("FT_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.FT.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("FT_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.FT.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("FT_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.FT.Burst = x }
    }
    if v := os.Getenv("FT_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.FT.CacheTTLSeconds = x }
    }
    if v := os.Getenv("FT_CACHE_MAX_ITEMS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.FT.CacheMaxItems = x }
    }

    if v := os.Getenv("TSP_ENABLED"); v != "" { setBool(&cfg.TSP.Enabled, v) }
    if v := os.Getenv("TSP_URL"); v != "" { cfg.TSP.URL = v }
    if v := os.Getenv("TSP_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.TSP.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("TSP_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.TSP.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("TSP_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.TSP.Burst = x }
    }
    if v := os.Getenv("TSP_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.TSP.CacheTTLSeconds = x }
    }
    if v := os.Getenv("TSP_CACHE_MAX_ITEMS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.TSP.CacheMaxItems = x }
    }
}

func setBool(dst *bool, v string) {
    switch v {
    case "1", "true", "yes", "y", "TRUE", "True", "YES", "Y":
        *dst = true
    case "0", "false", "no", "n", "FALSE", "False", "NO", "N":
        *dst = false
    }
}

package config

import (
    "os"
    "path/filepath"
    "testing"
)

func TestLoad_Defaults(t *testing.T) {
    cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Server.Port != "8080" || cfg.Server.RequestTimeoutSec != 10 {
        t.Fatalf("unexpected server defaults: %+v", cfg.Server)
    }
    if !cfg.FT.Enabled || !cfg.TSP.Enabled {
        t.Fatalf("sources should default enabled: %+v", cfg)
    }
    if cfg.DefaultCurrency != "USD" {
        t.Fatalf("default currency: %q", cfg.DefaultCurrency)
    }
}

func TestLoad_FileOverrides(t *testing.T) {
    path := filepath.Join(t.TempDir(), "config.json")
    body := `{"server":{"port":"9090"},"ft":{"enabled":false},"tsp":{"url":"https://example.test/prices.csv"}}`
    if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
        t.Fatal(err)
    }

    cfg, err := Load(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Server.Port != "9090" {
        t.Fatalf("port not overridden: %q", cfg.Server.Port)
    }
    if cfg.FT.Enabled {
        t.Fatal("ft should be disabled by file")
    }
    if cfg.TSP.URL != "https://example.test/prices.csv" {
        t.Fatalf("tsp url: %q", cfg.TSP.URL)
    }
}

func TestLoad_EnvOverridesFile(t *testing.T) {
    t.Setenv("PORT", "7070")
    t.Setenv("FT_CHART_URL", "https://example.test/chart")
    t.Setenv("TSP_ENABLED", "false")
    t.Setenv("FT_CACHE_TTL_SEC", "5")

    cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Server.Port != "7070" {
        t.Fatalf("port: %q", cfg.Server.Port)
    }
    if cfg.FT.ChartURL != "https://example.test/chart" {
        t.Fatalf("chart url: %q", cfg.FT.ChartURL)
    }
    if cfg.TSP.Enabled {
        t.Fatal("tsp should be disabled by env")
    }
    if cfg.FT.CacheTTLSeconds != 5 {
        t.Fatalf("cache ttl: %d", cfg.FT.CacheTTLSeconds)
    }
}

func TestLoad_BadJSON(t *testing.T) {
    path := filepath.Join(t.TempDir(), "config.json")
    if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
        t.Fatal(err)
    }
    if _, err := Load(path); err == nil {
        t.Fatal("want error for malformed config")
    }
}

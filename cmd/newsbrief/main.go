package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"newsbrief/internal/briefing"
	"newsbrief/internal/config"
	"newsbrief/internal/fetcher"
	"newsbrief/internal/gate"
	"newsbrief/internal/gemini"
	"newsbrief/internal/logger"
	"newsbrief/internal/metrics"
	"newsbrief/internal/summary"
)

const entryPrefix = "/entrypoints/"

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	policy, err := config.LoadOriginPolicy(cfg.OriginPolicyPath)
	if err != nil {
		log.Fatalf("origin policy error: %v", err)
	}

	g := &gate.Gate{
		EntryPrefix:     entryPrefix,
		AllowedOrigins:  cfg.AllowedOrigins,
		PaymentGateways: policy.PaymentGateways,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		UnlimitedPaths:  []string{"/health", "/metrics"},
		Limiter:         gate.NewLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, cfg.RateLimitGC),
	}

	// Without a Gemini key the summarizer runs its deterministic fallback.
	var gen summary.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini client unavailable, falling back to scripted summaries", "err", err)
		} else {
			defer client.Close()
			gen = client
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, using scripted summaries")
	}

	handler := &briefing.Handler{
		Feed:            fetcher.NewClient(cfg.FetchTimeout, cfg.MaxBodyBytes),
		FeedURL:         cfg.FeedEndpoint,
		FeedAuthToken:   cfg.FeedAuthToken,
		Summarizer:      summary.New(gen),
		GenerateTimeout: cfg.GenerateTimeout,
		Price:           cfg.PricePerCall,
		MaxBodyBytes:    cfg.MaxBodyBytes,
	}

	mux := http.NewServeMux()
	mux.Handle(entryPrefix+briefing.OperationID, handler)
	mux.HandleFunc("/entrypoints", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"operations": []briefing.Operation{handler.Describe()},
		})
	})
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)

	addr := ":" + cfg.Port
	logger.Info("starting newsbrief",
		"addr", addr,
		"operation", briefing.OperationID,
		"price", cfg.PricePerCall,
		"rate_limit", cfg.RateLimitMax,
	)
	if err := http.ListenAndServe(addr, g.Middleware(mux)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	w.Header().Set("Content-Type", "application/json")
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	writeJSON(w, map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, metrics.Global.GetStats())
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/updown/bet-engine/internal/bank"
	"github.com/updown/bet-engine/internal/chain"
	"github.com/updown/bet-engine/internal/config"
	"github.com/updown/bet-engine/internal/gate"
	"github.com/updown/bet-engine/internal/metrics"
	"github.com/updown/bet-engine/internal/oracle"
	"github.com/updown/bet-engine/internal/payout"
	"github.com/updown/bet-engine/internal/risk"
	"github.com/updown/bet-engine/internal/store"
	"github.com/updown/bet-engine/internal/wager"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	// --- Initialize store ---
	var st store.Store
	var cleanup []func()

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, pool.Close)
		st = store.NewPostgresStore(pool)
		slog.Info("connected to PostgreSQL")

		// Wrap with Redis read-through cache if configured.
		if cfg.RedisURL != "" {
			opt, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				slog.Error("invalid REDIS_URL", "err", err)
				os.Exit(1)
			}
			rdb := redis.NewClient(opt)
			cleanup = append(cleanup, func() { rdb.Close() })
			st = store.NewCachedStore(st, rdb, 30*time.Second)
			slog.Info("Redis cache enabled")
		}
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory store (data will not persist)")
		st = store.NewMemoryStore()
	}

	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	// --- Settlement calculator and risk limiter ---
	calc, err := payout.NewCalculator(cfg.FeeBps)
	if err != nil {
		slog.Error("invalid fee rate", "fee_bps", cfg.FeeBps, "err", err)
		os.Exit(1)
	}
	limiter := risk.NewLimiter(cfg.MaxShareBps, cfg.MinRiskVolume)

	// --- Clock: block counter mapped to derived time ---
	genesis := cfg.GenesisTime
	if genesis == 0 {
		genesis = time.Now().Unix()
	}
	heights := chain.NewCounter(0)
	clock := chain.NewBlockClock(genesis, cfg.SecondsPerBlock, heights)
	go func() {
		// Stand-in block production at the configured cadence; a real
		// deployment feeds heights from the chain.
		ticker := time.NewTicker(time.Duration(cfg.SecondsPerBlock) * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			heights.Advance(1)
		}
	}()

	// --- Collaborators ---
	vault := bank.NewVault()
	accessGate := gate.NewMemory(!cfg.Paused, cfg.AuthorizedFeeds...)
	feed := oracle.NewFeed(cfg.OracleTolerance)

	// --- WebSocket hub ---
	wsHub := wager.NewWSHub()
	go wsHub.Run()

	// --- Wager service ---
	svc, err := wager.NewService(context.Background(), wager.Params{
		Store:   st,
		Bank:    vault,
		Gate:    accessGate,
		Clock:   clock,
		Feed:    feed,
		Limiter: limiter,
		Calc:    calc,
		Limits: wager.Limits{
			MinStake:    cfg.MinStake,
			MaxStake:    cfg.MaxStake,
			MinDuration: cfg.MinDuration,
			MaxDuration: cfg.MaxDuration,
		},
		Custody: cfg.CustodyAccount,
		Hub:     wsHub,
	})
	if err != nil {
		slog.Error("service init failed", "err", err)
		os.Exit(1)
	}

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	// CORS middleware for frontend cross-origin requests.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"bet-engine"}`))
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket endpoint for real-time bet events.
		r.Get("/ws", wsHub.HandleWS)

		// Bet lifecycle.
		r.Post("/bets", svc.HandlePlaceBet)
		r.Get("/bets/expired", svc.HandleExpiredBets)
		r.Get("/bets/{betID}", svc.HandleGetBet)
		r.Post("/bets/{betID}/resolve", svc.HandleResolveBet)

		// Bookkeeping reads.
		r.Get("/accounts/{account}/stats", svc.HandleAccountStats)
		r.Get("/pools/{day}", svc.HandlePool)

		// Price feed.
		r.Post("/prices", svc.HandleSubmitPrice)
		r.Get("/prices/latest", svc.HandleLatestPrice)
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("bet-engine listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down bet-engine...")
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("bet-engine stopped")
}

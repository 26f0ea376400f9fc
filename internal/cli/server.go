package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/config"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/infra/memory"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/infra/opentdb"
	pghistory "github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/infra/postgres"
	redishistory "github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/infra/redis"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/session"
	transport "github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	provider := opentdb.NewClient()
	if cfg.Trivia.BaseURL != "" {
		timeout := config.Duration(cfg.Trivia.Timeout, 15*time.Second)
		provider = opentdb.NewClientWith(cfg.Trivia.BaseURL, &http.Client{Timeout: timeout})
	}

	var store session.HistoryStore = memory.NewHistoryStore()
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pghistory.NewHistoryStore(pool)
	case cfg.Redis.Addr != "":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redishistory.NewHistoryStore(redisClient, config.Duration(cfg.Redis.TTL, 0))
	}

	catalog := memory.NewCategoryCatalog(provider, config.Duration(cfg.Trivia.CatalogTTL, time.Hour))

	wsHandler := transport.NewWSHandler(provider, store)
	apiHandler := transport.NewAPIHandler(store, catalog)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/categories", apiHandler.ServeCategories)
	mux.HandleFunc("/history", apiHandler.ServeHistory)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia session service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"math-quiz-service/internal/app"
	"math-quiz-service/internal/config"
	"math-quiz-service/internal/i18n"
	"math-quiz-service/internal/infra/memory"
	pgledger "math-quiz-service/internal/infra/postgres"
	redisledger "math-quiz-service/internal/infra/redis"
	transport "math-quiz-service/internal/transport/http"
)

const (
	ledgerPingTimeout = 3 * time.Second
	grantTimeout      = 5 * time.Second
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger := resolveLedger(ctx, cfg)
	defer closeLedger()

	hub := app.NewHub()
	opts := []app.Option{app.WithGrantTimeout(config.Duration(cfg.Rewards.Timeout, grantTimeout))}
	var credits app.CreditReader
	if ledger != nil {
		opts = append(opts, app.WithRewards(ledger))
		credits = ledger
	}
	game, err := app.NewGame(cfg.Quiz, app.NewAnnouncer(hub, i18n.New(cfg.Locale)), opts...)
	if err != nil {
		return err
	}
	wsHandler := transport.NewWSHandler(game, hub, credits)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting math quiz on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-reload:
				reloadQuiz(game, configPath)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		game.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	game.Start()
	log.Printf("first question in %s", cfg.Quiz.QuestionInterval())
	return g.Wait()
}

// reloadQuiz applies the quiz section of the config file. Other sections
// need a restart.
func reloadQuiz(game *app.Game, configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("reload config: %v; keeping current quiz settings", err)
		return
	}
	if err := game.SetConfig(cfg.Quiz); err != nil {
		log.Printf("reload config: %v; keeping current quiz settings", err)
		return
	}
	log.Printf("quiz settings reloaded from %s", configPath)
}

// resolveLedger picks the reward capability once at startup. An unreachable
// backend leaves the quiz running without credits.
func resolveLedger(ctx context.Context, cfg config.Config) (app.CreditLedger, func()) {
	noop := func() {}
	switch backend := cfg.RewardBackend(); backend {
	case config.BackendNone:
		log.Printf("rewards disabled; answers are announced without credits")
		return nil, noop
	case config.BackendMemory:
		return memory.NewCreditLedger(), noop
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ledger := redisledger.NewCreditLedger(client)
		pingCtx, cancel := context.WithTimeout(ctx, ledgerPingTimeout)
		defer cancel()
		if err := ledger.Ping(pingCtx); err != nil {
			log.Printf("rewards unavailable: redis %s: %v", cfg.Redis.Addr, err)
			client.Close()
			return nil, noop
		}
		return ledger, func() { client.Close() }
	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			log.Printf("rewards unavailable: %v", err)
			return nil, noop
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Printf("rewards unavailable: connect postgres: %v", err)
			return nil, noop
		}
		ledger := pgledger.NewCreditLedger(pool)
		pingCtx, cancel := context.WithTimeout(ctx, ledgerPingTimeout)
		defer cancel()
		if err := ledger.Ping(pingCtx); err != nil {
			log.Printf("rewards unavailable: ping postgres: %v", err)
			pool.Close()
			return nil, noop
		}
		return ledger, pool.Close
	default:
		log.Printf("rewards unavailable: unknown backend %q", backend)
		return nil, noop
	}
}

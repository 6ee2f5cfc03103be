package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"gobot/internal/adapters"
	"gobot/internal/bootstrap"
	advisorDelivery "gobot/internal/delivery/advisor"
	ownMiddleware "gobot/internal/middleware"
	"gobot/internal/random"
	repo "gobot/internal/repository"
	"gobot/internal/usecase/bot"
	"gobot/internal/usecase/selector"
)

type stores struct {
	sessions bot.SessionStore
	journal  bot.Journal
	history  advisorDelivery.History
	closers  []func(context.Context) error
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	st := initStores(ctx, logger, cfg)
	defer func() {
		for _, c := range st.closers {
			_ = c(context.Background())
		}
	}()

	conn, err := grpc.NewClient(cfg.EvaluatorAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("Failed to dial evaluator", zap.Error(err))
	}
	defer conn.Close()

	evaluator := repo.NewEvaluatorRepository(conn, cfg.EvaluatorTimeout, logger)
	sel, err := selector.NewSelector(selector.Config{
		Size:             cfg.BoardSize,
		OpeningThreshold: cfg.OpeningThreshold,
		WindowSize:       cfg.WindowSize,
		WindowRatio:      cfg.WindowRatio,
		AdviceLimit:      cfg.AdviceLimit,
	}, evaluator, random.New(cfg.RandomSeed), logger)
	if err != nil {
		logger.Fatal("Invalid selector configuration", zap.Error(err))
	}

	service := repo.NewGameServiceRepository(cfg, logger, &http.Client{Timeout: 30 * time.Second})
	player := bot.NewBot(service, sel, st.sessions, st.journal, cfg.PollInterval, cfg.BoardSize, logger)

	r := chi.NewRouter()
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	handler := advisorDelivery.NewAdvisorHandler(*cfg, logger, sel)
	if st.history != nil {
		handler.WithHistory(st.history)
	}
	handler.Routes(r)

	server := &http.Server{Addr: ":" + cfg.AdvisorPort, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return player.Run(gctx)
	})
	g.Go(func() error {
		logger.Infof("Advisor is running on port %s", cfg.AdvisorPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorw("Stopped", "error", err)
		return
	}
	logger.Info("Stopped")
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

// initStores connects redis and mongo when configured and falls back to
// no-op stores otherwise.
func initStores(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *stores {
	st := &stores{
		sessions: repo.NewMemorySessionStorage(),
		journal:  repo.NoopJournal{},
	}

	if cfg.RedisUrl != "" {
		redisAdapter := adapters.NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			log.Fatal("Failed to init redis", zap.Error(err))
		}
		st.sessions = repo.NewSessionRedisStorage(redisAdapter.GetClient(), cfg.HandledTTL, log)
		st.closers = append(st.closers, redisAdapter.Close)
	} else {
		log.Warn("REDIS_URL is empty, answered positions are kept in memory only")
	}

	if cfg.MongoUri != "" {
		mongoAdapter := adapters.NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			log.Fatal("Failed to init mongodb", zap.Error(err))
		}
		journal := repo.NewJournalMongoStorage(mongoAdapter.Database, log)
		st.journal = journal
		st.history = journal
		st.closers = append(st.closers, mongoAdapter.Close)
	} else {
		log.Warn("MONGO_URI is empty, decisions are not journaled")
	}

	return st
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}

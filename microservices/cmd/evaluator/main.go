package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"gobot/internal/bootstrap"
	evaluatorRPC "gobot/microservices/proto"
	"gobot/microservices/repository"
	"gobot/microservices/usecase"
)

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	store, closeStore, err := newModelStore(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to load model", "backend", cfg.EvaluatorBackend, "error", err)
	}
	defer closeStore()

	lis, err := net.Listen("tcp", cfg.EvaluatorListen)
	if err != nil {
		logger.Fatalw("Failed to listen", "addr", cfg.EvaluatorListen, "error", err)
	}

	server := grpc.NewServer()
	evaluatorRPC.RegisterEvaluatorServiceServer(server, usecase.NewEvaluatorUseCase(store, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("Evaluator (%s) is listening on %s", cfg.EvaluatorBackend, cfg.EvaluatorListen)
	if err := server.Serve(lis); err != nil {
		logger.Fatalw("Failed to serve", "error", err)
	}
}

func newModelStore(cfg *bootstrap.Config, log *zap.SugaredLogger) (usecase.ModelStore, func(), error) {
	switch cfg.EvaluatorBackend {
	case "http":
		return repository.NewHTTPModel(cfg, log, &http.Client{}), func() {}, nil
	case "onnx":
		m, err := repository.NewOnnxModel(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case "deep":
		m, err := repository.NewDeepModel(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown evaluator backend %q", cfg.EvaluatorBackend)
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}

package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"gobot/internal/domain/board"
	errs "gobot/internal/errors"
	evaluatorRPC "gobot/microservices/proto"
)

// EvaluatorRepository forwards view batches to the evaluator service.
type EvaluatorRepository struct {
	client  evaluatorRPC.EvaluatorServiceClient
	timeout time.Duration
	log     *zap.SugaredLogger
}

func NewEvaluatorRepository(conn grpc.ClientConnInterface, timeout time.Duration, log *zap.SugaredLogger) *EvaluatorRepository {
	return &EvaluatorRepository{
		client:  evaluatorRPC.NewEvaluatorServiceClient(conn),
		timeout: timeout,
		log:     log,
	}
}

func (e *EvaluatorRepository) Evaluate(ctx context.Context, views []board.Tensor) ([]board.Tensor, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	requestID := uuid.New().String()
	ctx = metadata.AppendToOutgoingContext(ctx, evaluatorRPC.RequestIDKey, requestID)

	batch := make([][]float32, len(views))
	for i, v := range views {
		batch[i] = v
	}

	start := time.Now()
	resp, err := e.client.Evaluate(ctx, evaluatorRPC.EncodeBatch(batch))
	if err != nil {
		e.log.Errorw("evaluator call failed", "request_id", requestID, "error", err)
		return nil, err
	}
	out, err := evaluatorRPC.DecodeBatch(resp)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrBadTensor)
	}
	e.log.Debugw("evaluator answered", "request_id", requestID, "views", len(views), "elapsed", time.Since(start))

	r := make([]board.Tensor, len(out))
	for i, t := range out {
		r[i] = t
	}
	return r, nil
}

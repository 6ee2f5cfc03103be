package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	evaluatorRPC "gobot/microservices/proto"
)

// ModelStore runs the policy network on a batch of flat board planes and
// returns one score plane per input.
type ModelStore interface {
	Predict(ctx context.Context, batch [][]float32) ([][]float32, error)
}

type EvaluatorUseCase struct {
	store ModelStore
	log   *zap.SugaredLogger
	evaluatorRPC.UnimplementedEvaluatorServiceServer
}

func NewEvaluatorUseCase(store ModelStore, log *zap.SugaredLogger) *EvaluatorUseCase {
	return &EvaluatorUseCase{
		store: store,
		log:   log,
	}
}

func (e *EvaluatorUseCase) Evaluate(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error) {
	requestID := requestIDFrom(ctx)

	batch, err := evaluatorRPC.DecodeBatch(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := checkBatch(batch); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out, err := e.store.Predict(ctx, batch)
	if err != nil {
		e.log.Errorw("prediction failed", "request_id", requestID, "views", len(batch), "error", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, status.FromContextError(err).Err()
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	if len(out) != len(batch) {
		return nil, status.Errorf(codes.Internal, "model returned %d planes for %d views", len(out), len(batch))
	}

	e.log.Infow("evaluated", "request_id", requestID, "views", len(batch))
	return evaluatorRPC.EncodeBatch(out), nil
}

// checkBatch requires a non-empty batch of equally sized planes.
func checkBatch(batch [][]float32) error {
	if len(batch) == 0 {
		return fmt.Errorf("empty batch: %w", evaluatorRPC.ErrBadTensor)
	}
	cells := len(batch[0])
	for i, t := range batch {
		if len(t) == 0 || len(t) != cells {
			return fmt.Errorf("plane %d has %d cells, want %d: %w", i, len(t), cells, evaluatorRPC.ErrBadTensor)
		}
	}
	return nil
}

func requestIDFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(evaluatorRPC.RequestIDKey); len(v) > 0 {
		return v[0]
	}
	return ""
}

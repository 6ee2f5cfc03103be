package repo

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"gobot/internal/domain/board"
	errs "gobot/internal/errors"
	evaluatorRPC "gobot/microservices/proto"
)

type echoServer struct {
	evaluatorRPC.UnimplementedEvaluatorServiceServer
	requestIDs []string
	reply      *structpb.ListValue
}

func (e *echoServer) Evaluate(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		e.requestIDs = append(e.requestIDs, md.Get(evaluatorRPC.RequestIDKey)...)
	}
	if e.reply != nil {
		return e.reply, nil
	}
	return in, nil
}

func dialEvaluator(t *testing.T, srv evaluatorRPC.EvaluatorServiceServer) *EvaluatorRepository {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	evaluatorRPC.RegisterEvaluatorServiceServer(server, srv)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewEvaluatorRepository(conn, time.Second, zap.NewNop().Sugar())
}

func TestEvaluatorRepository(t *testing.T) {
	srv := &echoServer{}
	e := dialEvaluator(t, srv)

	views := []board.Tensor{{1, 0, -1, 0}, {0, 0, 0, 1}}
	out, err := e.Evaluate(context.Background(), views)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(out) != 2 || out[0][2] != -1 || out[1][3] != 1 {
		t.Errorf("out = %v", out)
	}
	if len(srv.requestIDs) != 1 || srv.requestIDs[0] == "" {
		t.Errorf("request ids = %v, want one", srv.requestIDs)
	}
}

func TestEvaluatorRepositoryBadReply(t *testing.T) {
	reply := &structpb.ListValue{Values: []*structpb.Value{structpb.NewStringValue("oops")}}
	e := dialEvaluator(t, &echoServer{reply: reply})
	_, err := e.Evaluate(context.Background(), []board.Tensor{{0}})
	if !errors.Is(err, errs.ErrBadTensor) {
		t.Fatalf("err = %v, want ErrBadTensor", err)
	}
}

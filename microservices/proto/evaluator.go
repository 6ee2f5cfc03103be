package evaluator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Tensors travel as a list of numeric lists, one inner list per view.

const (
	ServiceName             = "gobot.evaluator.EvaluatorService"
	Evaluate_FullMethodName = "/" + ServiceName + "/Evaluate"
	RequestIDKey            = "x-request-id"
)

var ErrBadTensor = errors.New("malformed tensor batch")

type EvaluatorServiceClient interface {
	Evaluate(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type evaluatorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEvaluatorServiceClient(cc grpc.ClientConnInterface) EvaluatorServiceClient {
	return &evaluatorServiceClient{cc}
}

func (c *evaluatorServiceClient) Evaluate(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	err := c.cc.Invoke(ctx, Evaluate_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type EvaluatorServiceServer interface {
	Evaluate(context.Context, *structpb.ListValue) (*structpb.ListValue, error)
}

type UnimplementedEvaluatorServiceServer struct{}

func (UnimplementedEvaluatorServiceServer) Evaluate(context.Context, *structpb.ListValue) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Evaluate not implemented")
}

func RegisterEvaluatorServiceServer(s grpc.ServiceRegistrar, srv EvaluatorServiceServer) {
	s.RegisterService(&EvaluatorService_ServiceDesc, srv)
}

func _EvaluatorService_Evaluate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvaluatorServiceServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Evaluate_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EvaluatorServiceServer).Evaluate(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

var EvaluatorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EvaluatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    _EvaluatorService_Evaluate_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "evaluator.proto",
}

func EncodeBatch(batch [][]float32) *structpb.ListValue {
	outer := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(batch))}
	for _, tensor := range batch {
		inner := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(tensor))}
		for _, v := range tensor {
			inner.Values = append(inner.Values, structpb.NewNumberValue(float64(v)))
		}
		outer.Values = append(outer.Values, structpb.NewListValue(inner))
	}
	return outer
}

func DecodeBatch(l *structpb.ListValue) ([][]float32, error) {
	batch := make([][]float32, 0, len(l.GetValues()))
	for i, item := range l.GetValues() {
		inner := item.GetListValue()
		if inner == nil {
			return nil, fmt.Errorf("tensor %d is not a list: %w", i, ErrBadTensor)
		}
		tensor := make([]float32, 0, len(inner.GetValues()))
		for j, v := range inner.GetValues() {
			n, ok := v.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return nil, fmt.Errorf("tensor %d cell %d is not a number: %w", i, j, ErrBadTensor)
			}
			tensor = append(tensor, float32(n.NumberValue))
		}
		batch = append(batch, tensor)
	}
	return batch, nil
}

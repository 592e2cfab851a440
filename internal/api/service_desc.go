package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "jobdoctor.v1.HeuristicService"
	// EvaluateMethod is the full method path of the Evaluate RPC.
	EvaluateMethod = "/" + ServiceName + "/Evaluate"
)

// HeuristicServiceServer is the server API for jobdoctor.v1.HeuristicService.
// Requests and responses are google.protobuf.Struct; convert.go documents
// the field layout.
type HeuristicServiceServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterHeuristicServiceServer attaches srv to s.
func RegisterHeuristicServiceServer(s grpc.ServiceRegistrar, srv HeuristicServiceServer) {
	s.RegisterService(&heuristicServiceDesc, srv)
}

var heuristicServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HeuristicServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobdoctor/v1/heuristics.proto",
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeuristicServiceServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvaluateMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HeuristicServiceServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

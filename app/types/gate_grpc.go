package types

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	GateService_IsEnabled_FullMethodName    = "/toolhub.GateService/IsEnabled"
	GateService_GetLimit_FullMethodName     = "/toolhub.GateService/GetLimit"
	GateService_GetUsage_FullMethodName     = "/toolhub.GateService/GetUsage"
	GateService_ConsumeQuota_FullMethodName = "/toolhub.GateService/ConsumeQuota"
)

// GateServiceClient is the client API for toolhub.GateService.
type GateServiceClient interface {
	IsEnabled(ctx context.Context, in *FeatureRequest, opts ...grpc.CallOption) (*FeatureResponse, error)
	GetLimit(ctx context.Context, in *LimitRequest, opts ...grpc.CallOption) (*LimitResponse, error)
	GetUsage(ctx context.Context, in *UsageRequest, opts ...grpc.CallOption) (*UsageResponse, error)
	ConsumeQuota(ctx context.Context, in *UsageRequest, opts ...grpc.CallOption) (*UsageResponse, error)
}

type gateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewGateServiceClient(cc grpc.ClientConnInterface) GateServiceClient {
	return &gateServiceClient{cc: cc}
}

func (c *gateServiceClient) IsEnabled(ctx context.Context, in *FeatureRequest, opts ...grpc.CallOption) (*FeatureResponse, error) {
	out := new(FeatureResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GateService_IsEnabled_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gateServiceClient) GetLimit(ctx context.Context, in *LimitRequest, opts ...grpc.CallOption) (*LimitResponse, error) {
	out := new(LimitResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GateService_GetLimit_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gateServiceClient) GetUsage(ctx context.Context, in *UsageRequest, opts ...grpc.CallOption) (*UsageResponse, error) {
	out := new(UsageResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GateService_GetUsage_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gateServiceClient) ConsumeQuota(ctx context.Context, in *UsageRequest, opts ...grpc.CallOption) (*UsageResponse, error) {
	out := new(UsageResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GateService_ConsumeQuota_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GateServiceServer is the server API for toolhub.GateService.
type GateServiceServer interface {
	IsEnabled(context.Context, *FeatureRequest) (*FeatureResponse, error)
	GetLimit(context.Context, *LimitRequest) (*LimitResponse, error)
	GetUsage(context.Context, *UsageRequest) (*UsageResponse, error)
	ConsumeQuota(context.Context, *UsageRequest) (*UsageResponse, error)
}

type UnimplementedGateServiceServer struct{}

func (UnimplementedGateServiceServer) IsEnabled(context.Context, *FeatureRequest) (*FeatureResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IsEnabled not implemented")
}

func (UnimplementedGateServiceServer) GetLimit(context.Context, *LimitRequest) (*LimitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLimit not implemented")
}

func (UnimplementedGateServiceServer) GetUsage(context.Context, *UsageRequest) (*UsageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUsage not implemented")
}

func (UnimplementedGateServiceServer) ConsumeQuota(context.Context, *UsageRequest) (*UsageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ConsumeQuota not implemented")
}

func RegisterGateServiceServer(s grpc.ServiceRegistrar, srv GateServiceServer) {
	s.RegisterService(&GateService_ServiceDesc, srv)
}

func _GateService_IsEnabled_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(FeatureRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GateServiceServer).IsEnabled(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GateService_IsEnabled_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GateServiceServer).IsEnabled(ctx, req.(*FeatureRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GateService_GetLimit_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LimitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GateServiceServer).GetLimit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GateService_GetLimit_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GateServiceServer).GetLimit(ctx, req.(*LimitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GateService_GetUsage_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UsageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GateServiceServer).GetUsage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GateService_GetUsage_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GateServiceServer).GetUsage(ctx, req.(*UsageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GateService_ConsumeQuota_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UsageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GateServiceServer).ConsumeQuota(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GateService_ConsumeQuota_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GateServiceServer).ConsumeQuota(ctx, req.(*UsageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// GateService_ServiceDesc is written by hand; messages are plain structs
// carried by the json codec rather than generated protobuf types.
var GateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "toolhub.GateService",
	HandlerType: (*GateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "IsEnabled", Handler: _GateService_IsEnabled_Handler},
		{MethodName: "GetLimit", Handler: _GateService_GetLimit_Handler},
		{MethodName: "GetUsage", Handler: _GateService_GetUsage_Handler},
		{MethodName: "ConsumeQuota", Handler: _GateService_ConsumeQuota_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "toolhub/gate.proto",
}

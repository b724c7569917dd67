// Package hiringv1 は hiring.v1.HiringService の gRPC サービス定義です。
// メッセージは google.protobuf.Struct を用い、フィールド名は共有ストアと同じ camelCase です。
package hiringv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName は完全修飾サービス名です。
const ServiceName = "hiring.v1.HiringService"

const (
	MethodCreateCase             = "CreateCase"
	MethodListCases              = "ListCases"
	MethodGetCase                = "GetCase"
	MethodToggleMedicalClearance = "ToggleMedicalClearance"
	MethodToggleIntegration      = "ToggleIntegration"
	MethodCancelCase             = "CancelCase"
	MethodCompleteAdmission      = "CompleteAdmission"
	MethodGetAdmissionLink       = "GetAdmissionLink"
	MethodSyncNow                = "SyncNow"
	MethodListEmployees          = "ListEmployees"
)

// FullMethod は /hiring.v1.HiringService/{method} を返します。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// HiringServiceServer はサーバー側の実装が満たすインターフェースです。
type HiringServiceServer interface {
	CreateCase(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCases(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCase(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleMedicalClearance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleIntegration(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelCase(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteAdmission(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAdmissionLink(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncNow(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedHiringServiceServer は前方互換のために埋め込む既定実装です。
type UnimplementedHiringServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedHiringServiceServer) CreateCase(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateCase)
}

func (UnimplementedHiringServiceServer) ListCases(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListCases)
}

func (UnimplementedHiringServiceServer) GetCase(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetCase)
}

func (UnimplementedHiringServiceServer) ToggleMedicalClearance(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodToggleMedicalClearance)
}

func (UnimplementedHiringServiceServer) ToggleIntegration(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodToggleIntegration)
}

func (UnimplementedHiringServiceServer) CancelCase(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCancelCase)
}

func (UnimplementedHiringServiceServer) CompleteAdmission(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCompleteAdmission)
}

func (UnimplementedHiringServiceServer) GetAdmissionLink(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetAdmissionLink)
}

func (UnimplementedHiringServiceServer) SyncNow(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSyncNow)
}

func (UnimplementedHiringServiceServer) ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListEmployees)
}

type unaryCall func(HiringServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodHandler(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HiringServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(HiringServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc は HiringService の grpc.ServiceDesc です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HiringServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodHandler(MethodCreateCase, HiringServiceServer.CreateCase),
		methodHandler(MethodListCases, HiringServiceServer.ListCases),
		methodHandler(MethodGetCase, HiringServiceServer.GetCase),
		methodHandler(MethodToggleMedicalClearance, HiringServiceServer.ToggleMedicalClearance),
		methodHandler(MethodToggleIntegration, HiringServiceServer.ToggleIntegration),
		methodHandler(MethodCancelCase, HiringServiceServer.CancelCase),
		methodHandler(MethodCompleteAdmission, HiringServiceServer.CompleteAdmission),
		methodHandler(MethodGetAdmissionLink, HiringServiceServer.GetAdmissionLink),
		methodHandler(MethodSyncNow, HiringServiceServer.SyncNow),
		methodHandler(MethodListEmployees, HiringServiceServer.ListEmployees),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hiring/v1/hiring.proto",
}

// RegisterHiringServiceServer は srv を s に登録します。
func RegisterHiringServiceServer(s grpc.ServiceRegistrar, srv HiringServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// HiringServiceClient は HiringService のクライアントです。
type HiringServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewHiringServiceClient は HiringServiceClient を生成します。
func NewHiringServiceClient(cc grpc.ClientConnInterface) *HiringServiceClient {
	return &HiringServiceClient{cc: cc}
}

// Call は method を呼び出します。in が nil の場合は空のメッセージを送ります。
func (c *HiringServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

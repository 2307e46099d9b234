package storefront

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "storefront.v1.StorefrontService"

// StorefrontServer is the server API. Requests and replies are
// google.protobuf.Struct documents.
type StorefrontServer interface {
	SubmitReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListReviews(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReviewEligibility(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMembership(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTiers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QuoteCheckout(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(StorefrontServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StorefrontServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(StorefrontServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes StorefrontService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SubmitReview", StorefrontServer.SubmitReview),
		unary("UpdateReview", StorefrontServer.UpdateReview),
		unary("DeleteReview", StorefrontServer.DeleteReview),
		unary("ListReviews", StorefrontServer.ListReviews),
		unary("GetReviewEligibility", StorefrontServer.GetReviewEligibility),
		unary("GetMembership", StorefrontServer.GetMembership),
		unary("ListTiers", StorefrontServer.ListTiers),
		unary("QuoteCheckout", StorefrontServer.QuoteCheckout),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/storefront.proto",
}

// Register registers srv on s.
func Register(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls StorefrontService methods by name.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new Client.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with the given request document.
func (c *Client) Call(ctx context.Context, method string, req map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "fontpair.v1.Catalog"

// CatalogServer is the server API of fontpair.v1.Catalog.
type CatalogServer interface {
	ListFonts(context.Context, *ListFontsRequest) (*ListFontsResponse, error)
	GetFont(context.Context, *GetFontRequest) (*GetFontResponse, error)
	RandomPair(context.Context, *RandomPairRequest) (*PairResponse, error)
	Complement(context.Context, *ComplementRequest) (*PairResponse, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler.
func unary[Req any, Resp any](method string, call func(CatalogServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListFonts", Handler: unary("ListFonts", CatalogServer.ListFonts)},
		{MethodName: "GetFont", Handler: unary("GetFont", CatalogServer.GetFont)},
		{MethodName: "RandomPair", Handler: unary("RandomPair", CatalogServer.RandomPair)},
		{MethodName: "Complement", Handler: unary("Complement", CatalogServer.Complement)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fontpair/v1/catalog",
}

// Client calls fontpair.v1.Catalog over a connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListFonts(ctx context.Context, in *ListFontsRequest, opts ...grpc.CallOption) (*ListFontsResponse, error) {
	return invoke[ListFontsResponse](ctx, c.cc, "ListFonts", in, opts)
}

func (c *Client) GetFont(ctx context.Context, in *GetFontRequest, opts ...grpc.CallOption) (*GetFontResponse, error) {
	return invoke[GetFontResponse](ctx, c.cc, "GetFont", in, opts)
}

func (c *Client) RandomPair(ctx context.Context, in *RandomPairRequest, opts ...grpc.CallOption) (*PairResponse, error) {
	return invoke[PairResponse](ctx, c.cc, "RandomPair", in, opts)
}

func (c *Client) Complement(ctx context.Context, in *ComplementRequest, opts ...grpc.CallOption) (*PairResponse, error) {
	return invoke[PairResponse](ctx, c.cc, "Complement", in, opts)
}

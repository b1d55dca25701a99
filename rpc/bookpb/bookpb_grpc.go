package bookpb

import (
	"context"

	"google.golang.org/grpc"
)

// BookSummaryFullMethod is the fully-qualified method name used by
// both the generated client and the service descriptor below.
const BookSummaryFullMethod = "/bookpb.BookSummaryService/BookSummary"

// BookSummaryServiceClient is the client API for BookSummaryService.
type BookSummaryServiceClient interface {
	BookSummary(ctx context.Context, in *Empty, opts ...grpc.CallOption) (BookSummaryService_BookSummaryClient, error)
}

type bookSummaryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBookSummaryServiceClient builds a client bound to cc.
func NewBookSummaryServiceClient(cc grpc.ClientConnInterface) BookSummaryServiceClient {
	return &bookSummaryServiceClient{cc}
}

func (c *bookSummaryServiceClient) BookSummary(ctx context.Context, in *Empty, opts ...grpc.CallOption) (BookSummaryService_BookSummaryClient, error) {
	stream, err := c.cc.NewStream(ctx, &bookSummaryServiceDesc.Streams[0], BookSummaryFullMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &bookSummaryServiceBookSummaryClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// BookSummaryService_BookSummaryClient is the receive side of the
// BookSummary server stream.
type BookSummaryService_BookSummaryClient interface {
	Recv() (*Summary, error)
	grpc.ClientStream
}

type bookSummaryServiceBookSummaryClient struct {
	grpc.ClientStream
}

func (x *bookSummaryServiceBookSummaryClient) Recv() (*Summary, error) {
	m := new(Summary)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// BookSummaryServiceServer is the server API for BookSummaryService.
type BookSummaryServiceServer interface {
	BookSummary(*Empty, BookSummaryService_BookSummaryServer) error
}

// BookSummaryService_BookSummaryServer is the send side of the
// BookSummary server stream.
type BookSummaryService_BookSummaryServer interface {
	Send(*Summary) error
	grpc.ServerStream
}

type bookSummaryServiceBookSummaryServer struct {
	grpc.ServerStream
}

func (x *bookSummaryServiceBookSummaryServer) Send(m *Summary) error {
	return x.ServerStream.SendMsg(m)
}

func bookSummaryBookSummaryHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BookSummaryServiceServer).BookSummary(m, &bookSummaryServiceBookSummaryServer{stream})
}

var bookSummaryServiceDesc = grpc.ServiceDesc{
	ServiceName: "bookpb.BookSummaryService",
	HandlerType: (*BookSummaryServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "BookSummary",
			Handler:       bookSummaryBookSummaryHandler,
			ServerStreams: true,
		},
	},
	Metadata: "bookpb.proto",
}

// RegisterBookSummaryServiceServer registers srv against s.
func RegisterBookSummaryServiceServer(s grpc.ServiceRegistrar, srv BookSummaryServiceServer) {
	s.RegisterService(&bookSummaryServiceDesc, srv)
}

// Package bookpb defines the wire messages for the BookSummary
// service. There is no .proto source in this tree: the messages are
// maintained by hand in the shape classic protoc-gen-go produced
// before the protoreflect-based generator — plain structs with
// Reset/String/ProtoMessage and "protobuf" struct tags. The modern
// google.golang.org/protobuf runtime still recognizes this shape as a
// legacy message and builds its reflection info from the struct tags
// at first use, so it works unmodified with grpc-go's default codec.
package bookpb

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// Level is one price level belonging to one exchange.
type Level struct {
	Exchange string  `protobuf:"bytes,1,opt,name=exchange,proto3" json:"exchange,omitempty"`
	Price    float64 `protobuf:"fixed64,2,opt,name=price,proto3" json:"price,omitempty"`
	Amount   float64 `protobuf:"fixed64,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Level) Reset()         { *m = Level{} }
func (m *Level) String() string { return fmt.Sprintf("%+v", *m) }
func (*Level) ProtoMessage()    {}

func (m *Level) GetExchange() string {
	if m != nil {
		return m.Exchange
	}
	return ""
}

func (m *Level) GetPrice() float64 {
	if m != nil {
		return m.Price
	}
	return 0
}

func (m *Level) GetAmount() float64 {
	if m != nil {
		return m.Amount
	}
	return 0
}

// Summary is one subscriber's top-of-book-per-exchange snapshot.
type Summary struct {
	Spread float64  `protobuf:"fixed64,1,opt,name=spread,proto3" json:"spread,omitempty"`
	Bids   []*Level `protobuf:"bytes,2,rep,name=bids,proto3" json:"bids,omitempty"`
	Asks   []*Level `protobuf:"bytes,3,rep,name=asks,proto3" json:"asks,omitempty"`
}

func (m *Summary) Reset()         { *m = Summary{} }
func (m *Summary) String() string { return fmt.Sprintf("%+v", *m) }
func (*Summary) ProtoMessage()    {}

func (m *Summary) GetSpread() float64 {
	if m != nil {
		return m.Spread
	}
	return 0
}

func (m *Summary) GetBids() []*Level {
	if m != nil {
		return m.Bids
	}
	return nil
}

func (m *Summary) GetAsks() []*Level {
	if m != nil {
		return m.Asks
	}
	return nil
}

// Empty carries no fields. BookSummary takes one to open the stream.
type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return "" }
func (*Empty) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Level)(nil), "bookpb.Level")
	proto.RegisterType((*Summary)(nil), "bookpb.Summary")
	proto.RegisterType((*Empty)(nil), "bookpb.Empty")
}

// Package adapter binds one exchange's streaming endpoint, subscription
// handshake, and wire decoder into a single reusable factory. Each
// adapter is the only exchange-aware code in the system; everything
// downstream of it works in terms of book.Update.
package adapter

import "bookagg/internal/book"

// Signal is the outcome of decoding one raw frame.
type Signal int

const (
	// SignalNone means the frame was not a recognized data or service
	// frame — drop it silently.
	SignalNone Signal = iota
	// SignalData means the frame decoded into a usable book.Update.
	SignalData
	// SignalReconnect means the frame was a server-initiated
	// reconnection request.
	SignalReconnect
)

// Decoder is total: malformed or unrecognized input returns
// (book.Update{}, SignalNone) rather than an error.
type Decoder func(raw []byte) (book.Update, Signal)

// Adapter is an immutable per-exchange factory: an exchange code, a
// streaming URL, a subscription payload, and a decoder.
type Adapter struct {
	Exchange     book.ExchangeCode
	URL          string
	Subscription interface{}
	Decode       Decoder
}

// New builds an Adapter. Subscription is marshaled to JSON and sent as
// the first outbound frame once the transport connects.
func New(exchange book.ExchangeCode, url string, subscription interface{}, decode Decoder) *Adapter {
	return &Adapter{
		Exchange:     exchange,
		URL:          url,
		Subscription: subscription,
		Decode:       decode,
	}
}

// Factory registers adapter constructors by exchange name, mirroring
// the pluggable-decoder registration the system needs to support
// exchanges beyond the two shipped out of the box.
type Factory struct {
	builders map[string]func(pair string) *Adapter
}

// NewFactory creates an empty Factory; Create returns nil for every
// exchange until its constructor has been added with Register.
func NewFactory() *Factory {
	f := &Factory{builders: make(map[string]func(pair string) *Adapter)}
	return f
}

// Register adds or replaces the constructor for the given exchange
// name.
func (f *Factory) Register(name string, build func(pair string) *Adapter) {
	f.builders[name] = build
}

// Create builds an Adapter for the given exchange and currency pair, or
// nil if the exchange was never registered.
func (f *Factory) Create(name, pair string) *Adapter {
	build, ok := f.builders[name]
	if !ok {
		return nil
	}
	return build(pair)
}

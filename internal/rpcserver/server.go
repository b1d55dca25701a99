// Package rpcserver bootstraps the BookSummary gRPC service on top of
// go-zero's zrpc.RpcServer, the same framework the teacher uses for
// services/api's HTTP surface, generalized from rest.Server to
// zrpc.RpcServer now that the northbound transport is gRPC rather than
// REST.
package rpcserver

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/zrpc"
	"google.golang.org/grpc"

	"bookagg/internal/book"
	"bookagg/internal/fanout"
	"bookagg/internal/metrics"
	"bookagg/internal/stream"
	"bookagg/rpc/bookpb"
)

// Config configures the gRPC listener.
type Config struct {
	ListenOn string
	Depth    int
}

// SessionFactory starts a fresh set of exchange sessions for one
// subscriber and returns the fused stream feeding them. Each
// subscriber gets its own sessions so that one slow consumer never
// steals bandwidth from another.
type SessionFactory func(ctx context.Context) stream.Stream

// New builds a zrpc.RpcServer serving BookSummary. Call Start on the
// result to block serving.
func New(cfg Config, sessions SessionFactory, log zerolog.Logger) *zrpc.RpcServer {
	// go-zero logs its own startup banner through logx by default; this
	// system's logging lives in zerolog instead, so silence logx rather
	// than run two independent loggers side by side.
	logx.Disable()

	serverConf := zrpc.RpcServerConf{
		ListenOn: cfg.ListenOn,
	}
	serverConf.Name = "bookagg.rpc"

	srv := zrpc.MustNewServer(serverConf, func(grpcServer *grpc.Server) {
		bookpb.RegisterBookSummaryServiceServer(grpcServer, &service{
			cfg:      cfg,
			sessions: sessions,
			log:      log,
		})
	})
	return srv
}

type service struct {
	cfg      Config
	sessions SessionFactory
	log      zerolog.Logger
}

// BookSummary implements bookpb.BookSummaryServiceServer. It runs for
// the lifetime of the call: a dedicated session set and book are
// started for this subscriber alone and torn down when the client
// disconnects or the server shuts down.
func (s *service) BookSummary(_ *bookpb.Empty, stream bookpb.BookSummaryService_BookSummaryServer) error {
	ctx := stream.Context()
	subscriberID := uuid.NewString()
	log := s.log.With().Str("subscriber", subscriberID).Logger()

	src := s.sessions(ctx)
	sub := fanout.NewSubscriber(src, book.Config{Depth: s.cfg.Depth})

	metrics.ActiveSubscribers.Inc()
	defer metrics.ActiveSubscribers.Dec()

	log.Info().Msg("subscriber connected")
	defer log.Info().Msg("subscriber disconnected")

	go sub.Run(ctx)
	defer sub.Close(context.Background())

	for summary := range sub.Summaries() {
		if err := stream.Send(summary); err != nil {
			log.Warn().Err(err).Msg("summary send failed, dropping subscriber")
			return err
		}
	}
	return ctx.Err()
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"bookagg/internal/adapter"
	"bookagg/internal/adapter/binance"
	"bookagg/internal/adapter/bitstamp"
	"bookagg/internal/book"
	"bookagg/internal/config"
	"bookagg/internal/events"
	"bookagg/internal/logging"
	"bookagg/internal/metrics"
	"bookagg/internal/rpcserver"
	"bookagg/internal/session"
	"bookagg/internal/statuscache"
	"bookagg/internal/stream"
)

// reconnectRateInterval bounds how often, across every session one
// subscriber owns, a reconnect attempt may go out — the design's
// "must remain bounded" guard against a flapping exchange (spec.md
// §9) enforced independently of each session's own backoff delay.
const reconnectRateInterval = 200 * time.Millisecond

var serverConfigPath string

var serverCmd = &cobra.Command{
	Use:   "server <currency-pair> [port]",
	Short: "Start the aggregator and BookSummary gRPC server",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&serverConfigPath, "config", "", "path to a JSON config file")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serverConfigPath != "" {
		loaded, err := config.Load(serverConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	pair := args[0]
	if len(args) == 2 {
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[1], err)
		}
		cfg.RPC.ListenOn = fmt.Sprintf("[::1]:%d", port)
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister(prometheus.DefaultRegisterer)
	go serveMetrics(log)

	var lifecycle *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		lifecycle = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer lifecycle.Close()
	}

	var status *statuscache.Cache
	if cfg.Redis.Addr != "" {
		cache, err := statuscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("connection status cache unavailable")
		} else {
			status = cache
			defer status.Close()
		}
	}

	factory := buildAdapterFactory()
	exchanges := enabledExchanges(cfg)

	sessions := func(sessionCtx context.Context) stream.Stream {
		// Shared across every session this subscriber owns: no more than one
		// reconnect attempt per reconnectRateInterval, regardless of how many
		// exchanges are flapping at once.
		limiter := rate.NewLimiter(rate.Every(reconnectRateInterval), 1)
		handles := make([]session.Handle, 0, len(exchanges))
		for _, name := range exchanges {
			ad := factory.Create(name, pair)
			if ad == nil {
				log.Warn().Str("exchange", name).Msg("unknown exchange, skipping")
				continue
			}
			exchange := ad.Exchange
			h := session.Start(sessionCtx, ad, session.Options{
				Logger:  log,
				Limiter: limiter,
				OnStatusChange: func(s, reason string) {
					onStatusChange(sessionCtx, exchange, s, reason, lifecycle, status)
				},
			})
			handles = append(handles, h)
		}
		return stream.Merge(handles...)
	}

	srv := rpcserver.New(rpcserver.Config{
		ListenOn: cfg.RPC.ListenOn,
		Depth:    cfg.Depth.Levels,
	}, sessions, log)

	log.Info().Str("pair", pair).Str("listen", cfg.RPC.ListenOn).Msg("starting BookSummary server")

	go func() {
		<-ctx.Done()
		srv.Stop()
	}()
	srv.Start()
	return nil
}

// onStatusChange fans a session's status transition out to the
// operational Kafka topic and the Redis status cache. Both sinks are
// optional; a deployment with neither configured still runs, just
// without the observability that wiring provides.
func onStatusChange(ctx context.Context, exchange book.ExchangeCode, status, reason string, lifecycle *events.Publisher, cache *statuscache.Cache) {
	if lifecycle != nil {
		kind := events.KindSessionConnected
		if status != "connected" {
			kind = events.KindSessionReconnected
		}
		lifecycle.Publish(ctx, events.Event{Kind: kind, Exchange: exchange, Reason: reason})
	}

	if cache != nil {
		var cs statuscache.Status
		switch status {
		case "connected":
			cs = statuscache.StatusConnected
		case "reconnecting":
			cs = statuscache.StatusReconnecting
		default:
			cs = statuscache.StatusDisconnected
		}
		if err := cache.SetStatus(ctx, exchange, cs); err != nil {
			return
		}
	}
}

func buildAdapterFactory() *adapter.Factory {
	f := adapter.NewFactory()
	f.Register("binance", func(pair string) *adapter.Adapter {
		return binance.New(pair, 10)
	})
	f.Register("bitstamp", func(pair string) *adapter.Adapter {
		return bitstamp.New(pair, 10)
	})
	return f
}

func enabledExchanges(cfg config.Config) []string {
	if len(cfg.Exchanges) == 0 {
		return []string{"binance", "bitstamp"}
	}
	names := make([]string, 0, len(cfg.Exchanges))
	for _, ex := range cfg.Exchanges {
		if ex.Enable {
			names = append(names, ex.Name)
		}
	}
	return names
}

// serveMetrics exposes the process's prometheus collectors. It runs
// for the life of the process; ListenAndServe's error (almost always
// "server closed" on shutdown) is not actionable here.
func serveMetrics(log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(":9090", mux); err != nil {
		log.Debug().Err(err).Msg("metrics server stopped")
	}
}

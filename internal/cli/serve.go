package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/morph"
	"github.com/aretw0/morph/internal/presentation/tui"
	httpAdapter "github.com/aretw0/morph/pkg/adapters/http"
	"github.com/aretw0/morph/pkg/adapters/mqtt"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/observability"
	"github.com/aretw0/morph/pkg/persist"
	"github.com/aretw0/morph/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	ConfigPath string
	Addr       string // overrides http.addr
	Debug      bool
	Quiet      bool
	Out        io.Writer
}

// RunServe runs the engine behind the HTTP control API until ctx is cancelled.
// Layouts are restored from the configured store at startup and persisted on exit.
func RunServe(ctx context.Context, opts ServeOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.HTTP.Addr = opts.Addr
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	logger := createLogger(cfg.LogLevel, opts.Debug)
	scene := buildScene(cfg)

	mgr, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Readings arrive over MQTT when a broker is configured, otherwise
	// through POST /orientation only.
	var source ports.OrientationSource
	if cfg.MQTT.Broker != "" {
		client, err := mqtt.Dial(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)

		sub := mqtt.New(client, cfg.MQTT.Topic, mqtt.WithQoS(cfg.MQTT.QoS), mqtt.WithLogger(logger))
		if err := sub.Start(ctx); err != nil {
			return err
		}
		defer sub.Stop()
		source = sub
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	streams := httpAdapter.NewStreamManager(logger)
	hooks := domain.ChainHooks(metrics.Hooks(), streams.Hooks(), observability.LogHooks(logger))

	eng, err := morph.New(source, scene,
		morph.WithLogger(logger),
		morph.WithPollInterval(cfg.PollInterval),
		morph.WithDefaultOrientation(cfg.DefaultOrientation),
		morph.WithEntries(cfg.Entries()),
		morph.WithElements(cfg.ElementIDs()...),
		morph.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return err
	}

	if _, err := mgr.Restore(ctx, cfg.Store.Key, eng.Switchboard()); err != nil {
		return fmt.Errorf("restore layouts: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", httpAdapter.NewHandler(eng, scene, httpAdapter.WithStreams(streams), httpAdapter.WithLogger(logger)))

	servers := []*http.Server{{Addr: cfg.HTTP.Addr, Handler: mux}}
	servers[0].RegisterOnShutdown(streams.Close)
	if cfg.Metrics.Addr == "" {
		mux.Handle("/metrics", observability.Handler(reg))
	} else {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", observability.Handler(reg))
		servers = append(servers, &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux})
	}

	if !opts.Quiet {
		tui.PrintBanner(opts.Out)
		printSystemMessage(opts.Out, "morph %s listening on %s", morph.Version, cfg.HTTP.Addr)
	}

	serverErrors := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("Starting server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrors <- fmt.Errorf("server %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	engineDone := make(chan error, 1)
	go func() { engineDone <- eng.Run(runCtx) }()

	var runErr error
	select {
	case runErr = <-serverErrors:
	case <-ctx.Done():
	}
	cancel()
	if err := <-engineDone; err != nil && runErr == nil {
		runErr = err
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer stop()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "addr", srv.Addr, "err", err)
			_ = srv.Close()
		}
	}

	if err := persistLayouts(mgr, cfg.Store.Key, eng.Switchboard()); err != nil {
		logger.Error("Failed to persist layouts", "key", cfg.Store.Key, "err", err)
		if runErr == nil {
			runErr = err
		}
	}

	if !opts.Quiet {
		printSystemMessage(opts.Out, "Server stopped")
	}
	return runErr
}

// persistLayouts saves the registry under key with a deadline of its own, so
// a slow HTTP shutdown cannot starve the final save.
func persistLayouts(mgr *persist.Manager, key string, reg persist.Registry) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return mgr.Persist(ctx, key, reg)
}

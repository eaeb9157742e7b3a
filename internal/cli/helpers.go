package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/morph/internal/adapters/file"
	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/adapters/memory"
	"github.com/aretw0/morph/pkg/adapters/redis"
	"github.com/aretw0/morph/pkg/config"
	"github.com/aretw0/morph/pkg/persist"
	"github.com/aretw0/morph/pkg/ports"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on stderr.
// debug overrides the configured level.
func createLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// loadConfig reads and validates the config file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildScene creates an in-memory element for every configured element.
func buildScene(cfg *config.Config) *memory.Scene {
	scene := memory.NewScene()
	for _, el := range cfg.Elements {
		name := el.Name
		if name == "" {
			name = el.ID
		}
		scene.Add(memory.NewElement(el.ID, name, el.Geometry))
	}
	return scene
}

// openStore builds the configured LayoutStore wrapped in a persist.Manager.
// The returned func releases backend connections.
func openStore(cfg *config.Config, logger *slog.Logger) (*persist.Manager, func() error, error) {
	noop := func() error { return nil }
	opts := []persist.Option{persist.WithLogger(logger)}

	var store ports.LayoutStore
	closer := noop
	switch cfg.Store.Kind {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.Store.Path)
	case config.StoreRedis:
		r := cfg.Store.Redis
		rs := redis.New(r.Addr, r.Password, r.DB, redis.WithPrefix(r.Prefix), redis.WithTTL(r.TTL))
		if err := rs.Client().Ping(context.Background()).Err(); err != nil {
			_ = rs.Close()
			return nil, noop, fmt.Errorf("connect to redis at %s: %w", r.Addr, err)
		}
		store = rs
		closer = rs.Close
		opts = append(opts, persist.WithLocker(redis.NewLocker(rs.Client(), r.Prefix)))
	default:
		return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	return persist.NewManager(store, opts...), closer, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/morph"
	"github.com/aretw0/morph/internal/presentation/tui"
	"github.com/aretw0/morph/pkg/adapters/memory"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/observability"
)

// SimulateOptions contains the configuration for the simulate command.
type SimulateOptions struct {
	ConfigPath string
	Readings   []string // raw host orientation names, replayed in order
	Interval   time.Duration
	Debug      bool
	Quiet      bool
	Restore    bool // seed the registry from the configured store
	Out        io.Writer
}

// RunSimulate replays a sequence of readings against the configured elements
// and prints every transition and the resulting geometry. The first reading
// is the startup reading and never fires.
func RunSimulate(ctx context.Context, opts SimulateOptions) error {
	if len(opts.Readings) == 0 {
		return fmt.Errorf("at least one reading is required")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.LogLevel, opts.Debug)
	scene := buildScene(cfg)

	entries := cfg.Entries()
	if opts.Restore {
		mgr, closeStore, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		stored, err := mgr.Load(ctx, cfg.Store.Key)
		switch {
		case err == nil:
			entries = stored
		case errors.Is(err, domain.ErrLayoutNotFound):
			logger.Warn("No stored layouts, using config", "key", cfg.Store.Key)
		default:
			return err
		}
	}

	readings := make([]domain.Orientation, len(opts.Readings))
	for i, raw := range opts.Readings {
		readings[i] = domain.Classify(raw)
	}
	source := memory.NewScriptedSource(readings...)

	hooks := []domain.LifecycleHooks{printHooks(opts.Out, opts.Quiet)}
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	eng, err := morph.New(source, scene,
		morph.WithLogger(logger),
		morph.WithPollInterval(cfg.PollInterval),
		morph.WithDefaultOrientation(cfg.DefaultOrientation),
		morph.WithElements(cfg.ElementIDs()...),
		morph.WithEntries(entries),
		morph.WithLifecycleHooks(domain.ChainHooks(hooks...)),
	)
	if err != nil {
		return err
	}
	if err := eng.Activate(); err != nil {
		return err
	}
	defer eng.Deactivate()

	initial := eng.Monitor().Prime(ctx)
	if !opts.Quiet {
		printSystemMessage(opts.Out, "Startup reading %q is %s", opts.Readings[0], tui.Orientation(initial.String()))
	}

	for i := 1; !source.Done(); i++ {
		if opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(opts.Interval):
			}
		}

		fired := eng.Monitor().Poll(ctx)
		if opts.Quiet {
			continue
		}
		if fired {
			fmt.Fprintf(opts.Out, "[%d] %s -> %s\n", i, opts.Readings[i], tui.Orientation(eng.Current().String()))
		} else {
			fmt.Fprintf(opts.Out, "[%d] %s: no transition\n", i, opts.Readings[i])
		}
	}

	if !opts.Quiet {
		printSystemMessage(opts.Out, "Final orientation %s", tui.Orientation(eng.Current().String()))
		printGeometry(opts.Out, scene, cfg.ElementIDs())
	}
	return nil
}

// printHooks reports per-element applies and skips as they happen.
func printHooks(w io.Writer, quiet bool) domain.LifecycleHooks {
	if quiet {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnApply: func(_ context.Context, e *domain.LayoutEvent) {
			fmt.Fprintf(w, "    applied %s\n", e.ElementID)
		},
		OnSkip: func(_ context.Context, e *domain.LayoutEvent) {
			fmt.Fprintf(w, "    skipped %s: %s\n", e.ElementID, e.Reason)
		},
	}
}

func printGeometry(w io.Writer, scene *memory.Scene, ids []string) {
	for _, id := range ids {
		el, ok := scene.Element(id)
		if !ok {
			continue
		}
		g := el.Geometry()
		fmt.Fprintf(w, "    %s: pos %s size %s scale %s\n", id, g.AnchoredPosition, g.SizeDelta, g.LocalScale)
	}
}

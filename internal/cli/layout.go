package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/internal/presentation/tui"
	"github.com/aretw0/morph/pkg/config"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/persist"
)

// LayoutOptions selects the store for the layout subcommands.
type LayoutOptions struct {
	ConfigPath string
	JSON       bool
	Out        io.Writer
}

func (o LayoutOptions) open() (*config.Config, *persist.Manager, func() error, error) {
	cfg, err := loadConfig(o.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}
	mgr, closeStore, err := openStore(cfg, logging.NewNop())
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, mgr, closeStore, nil
}

func (o LayoutOptions) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// LayoutList prints every stored layout key.
func LayoutList(ctx context.Context, opts LayoutOptions) error {
	_, mgr, closeStore, err := opts.open()
	if err != nil {
		return err
	}
	defer closeStore()

	keys, err := mgr.List(ctx)
	if err != nil {
		return fmt.Errorf("list layouts: %w", err)
	}

	w := opts.out()
	if opts.JSON {
		return json.NewEncoder(w).Encode(keys)
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, "No stored layouts found.")
		return nil
	}
	fmt.Fprintln(w, "Stored Layouts:")
	for _, k := range keys {
		fmt.Fprintln(w, "- "+k)
	}
	return nil
}

// LayoutInspect prints the layouts stored under key, or the configured key
// when key is empty. With elementID set only that entry is shown, field by field.
func LayoutInspect(ctx context.Context, opts LayoutOptions, key, elementID string) error {
	cfg, mgr, closeStore, err := opts.open()
	if err != nil {
		return err
	}
	defer closeStore()
	if key == "" {
		key = cfg.Store.Key
	}

	entries, err := mgr.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load layouts %q: %w", key, err)
	}

	if elementID != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.ElementID == elementID {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("%w: %s in %q", domain.ErrElementNotFound, elementID, key)
		}
		entries = filtered
	}

	w := opts.out()
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	md := tui.LayoutsMarkdown(key, entries)
	if elementID != "" {
		md = tui.EntryMarkdown(entries[0])
	}
	out, err := tui.NewRenderer(w)(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// LayoutRemove deletes the given keys, reporting each one.
func LayoutRemove(ctx context.Context, opts LayoutOptions, keys []string) error {
	_, mgr, closeStore, err := opts.open()
	if err != nil {
		return err
	}
	defer closeStore()

	w := opts.out()
	var errs []error
	for _, k := range keys {
		if err := mgr.Delete(ctx, k); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", k, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed layouts '%s'\n", k)
	}
	return errors.Join(errs...)
}

package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/beevik/etree"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapedi/internal/fileio"
	"github.com/leapstack-labs/leapedi/internal/state"
	"github.com/leapstack-labs/leapedi/pkg/edixml"
	edifmt "github.com/leapstack-labs/leapedi/pkg/format"
	"github.com/leapstack-labs/leapedi/pkg/parser"
)

// debounceDelay coalesces bursts of fsnotify events for the same save.
const debounceDelay = 100 * time.Millisecond

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	Workers int  // Parallel conversions; 0 uses the configured default
	Watch   bool // Keep running and convert files as they change
	Dedupe  bool // Skip interchanges whose control number is already in the ledger
	Pretty  bool // One segment per line on the EDI side
	Indent  int  // Indent width on the XML side
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Batch-convert between EDI and XML",
		Long: `Convert files in either direction, chosen by extension: .edi and .x12
inputs become .xml, .xml inputs become .edi. Directories are walked
recursively; .gz inputs are decompressed transparently.

When a state ledger is configured (--state or state_path), every conversion
is recorded with its interchange control number, and --dedupe skips
interchanges the ledger has already seen.`,
		Example: `  # Convert a directory tree with 8 workers
  leapedi convert ./inbox --workers 8

  # Keep watching for new and changed files
  leapedi convert ./inbox --watch

  # Skip interchanges already converted
  leapedi convert ./inbox --state ledger.db --dedupe`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Parallel conversions (default from config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Watch paths and convert on change")
	cmd.Flags().BoolVar(&opts.Dedupe, "dedupe", false, "Skip interchanges already in the ledger")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "One segment per line for EDI output")
	cmd.Flags().IntVar(&opts.Indent, "indent", 2, "Indent width for XML output (0 for compact)")

	return cmd
}

// converter carries the shared pieces of one convert run. The mutex guards
// ledger writes and dedupe checks; everything else is read-only across
// workers.
type converter struct {
	ctx   *CommandContext
	store *state.SQLiteStore
	opts  *ConvertOptions
	mu    sync.Mutex

	// written remembers output paths so watch mode does not convert its
	// own targets back in the other direction.
	written map[string]time.Time
}

func runConvert(cmd *cobra.Command, args []string, opts *ConvertOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if opts.Dedupe && store == nil {
		return fmt.Errorf("--dedupe needs a state ledger: set --state or state_path")
	}

	c := &converter{ctx: cmdCtx, store: store, opts: opts, written: map[string]time.Time{}}

	files, err := collectConvertible(args)
	if err != nil {
		return err
	}

	converted, skipped, failed := c.convertAll(cmd.Context(), files)
	if converted > 0 || skipped > 0 || failed == 0 {
		cmdCtx.Renderer.Success(fmt.Sprintf("converted %d file(s), skipped %d", converted, skipped))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(files))
	}

	if opts.Watch {
		return c.watch(cmd.Context(), args)
	}
	return nil
}

// convertAll runs the conversions through a bounded worker pool and returns
// the converted/skipped/failed counts. Individual failures are logged and
// counted rather than aborting the batch.
func (c *converter) convertAll(ctx context.Context, files []string) (converted, skipped, failed int) {
	workers := c.opts.Workers
	if workers <= 0 {
		workers = c.ctx.Cfg.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		f := f
		eg.Go(func() error {
			ok, err := c.convertOne(f)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed++
				c.ctx.Logger.Error("conversion failed", "file", f, "error", err)
				c.ctx.Renderer.Error(fmt.Sprintf("%s: %v", f, err))
			case ok:
				converted++
			default:
				skipped++
			}
			return nil
		})
	}
	_ = eg.Wait()
	return converted, skipped, failed
}

// convertOne converts a single file, reporting whether it was converted
// (false means skipped by dedupe).
func (c *converter) convertOne(src string) (bool, error) {
	target, direction, ok := conversionTarget(src)
	if !ok {
		return false, fmt.Errorf("no conversion for extension %q", filepath.Ext(src))
	}

	text, err := fileio.ReadFile(src, c.ctx.Cfg.Encoding)
	if err != nil {
		return false, err
	}

	var out string
	var controlNumber string
	var segments int

	switch direction {
	case state.DirectionToXML:
		doc, err := parser.Parse(text, c.ctx.Delims)
		if err != nil {
			return false, err
		}
		controlNumber = doc.ControlNumber()
		segments = len(doc.Segments)

		if skip, err := c.alreadySeen(controlNumber); err != nil {
			return false, err
		} else if skip {
			c.ctx.Logger.Info("skipping duplicate interchange", "file", src, "control_number", controlNumber)
			return false, nil
		}

		xdoc := edixml.FromDocument(doc)
		if c.opts.Indent > 0 {
			xdoc.Indent(c.opts.Indent)
		}
		if out, err = xdoc.WriteToString(); err != nil {
			return false, err
		}

	case state.DirectionFromXML:
		xdoc := etree.NewDocument()
		if err := xdoc.ReadFromString(text); err != nil {
			return false, err
		}
		doc := edixml.ToDocument(xdoc)
		doc.Options = c.ctx.Delims.Merge(doc.Options)
		controlNumber = doc.ControlNumber()
		segments = len(doc.Segments)
		out = edifmt.FormatWith(doc, edifmt.Options{SegmentNewline: c.opts.Pretty})
	}

	c.mu.Lock()
	c.written[target] = time.Now()
	c.mu.Unlock()
	if err := fileio.WriteFile(target, out); err != nil {
		return false, err
	}
	c.ctx.Logger.Info("converted", "source", src, "target", target, "direction", direction)

	return true, c.record(&state.Conversion{
		Source:        src,
		Target:        target,
		Direction:     direction,
		ControlNumber: controlNumber,
		Segments:      segments,
	})
}

func (c *converter) alreadySeen(controlNumber string) (bool, error) {
	if c.store == nil || !c.opts.Dedupe {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.HasControlNumber(controlNumber)
}

func (c *converter) record(conv *state.Conversion) error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.RecordConversion(conv)
}

// conversionTarget derives the output path and direction from the source
// extension. A trailing .gz is stripped before the extension is examined,
// so inbox/claims.edi.gz converts to inbox/claims.xml.
func conversionTarget(src string) (target, direction string, ok bool) {
	name := src
	if strings.EqualFold(filepath.Ext(name), ".gz") {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(name)
	switch strings.ToLower(ext) {
	case ".edi", ".x12":
		return strings.TrimSuffix(name, ext) + ".xml", state.DirectionToXML, true
	case ".xml":
		return strings.TrimSuffix(name, ext) + ".edi", state.DirectionFromXML, true
	}
	return "", "", false
}

// collectConvertible expands the argument paths: files pass through when
// convertible, directories are walked recursively.
func collectConvertible(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if _, _, ok := conversionTarget(p); !ok {
				return nil, fmt.Errorf("no conversion for extension %q", filepath.Ext(p))
			}
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, _, ok := conversionTarget(path); ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// watch converts files as they appear or change under the given paths,
// until interrupted.
func (c *converter) watch(ctx context.Context, paths []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range paths {
		if err := watchRecursive(watcher, p); err != nil {
			return err
		}
	}
	c.ctx.Renderer.Info("watching for changes (ctrl-c to stop)")

	// Debounce timers, one per path: editors fire several events per save.
	timers := map[string]*time.Timer{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = watchRecursive(watcher, event.Name)
				continue
			}
			if _, _, ok := conversionTarget(event.Name); !ok {
				continue
			}
			if c.wroteRecently(event.Name) {
				continue
			}

			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			name := event.Name
			timers[name] = time.AfterFunc(debounceDelay, func() {
				if ok, err := c.convertOne(name); err != nil {
					c.ctx.Logger.Error("conversion failed", "file", name, "error", err)
				} else if ok {
					c.ctx.Logger.Info("converted on change", "file", name)
				}
			})

		case err := <-watcher.Errors:
			c.ctx.Logger.Error("watcher error", "error", err)
		}
	}
}

// wroteRecently reports whether path was one of our own outputs within the
// last few seconds.
func (c *converter) wroteRecently(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.written[path]
	return ok && time.Since(t) < 5*time.Second
}

// watchRecursive adds a path and all nested directories to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

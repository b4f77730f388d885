package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/viant/pytracer/logging"
	"github.com/viant/pytracer/tracer"
)

func newRunCmd() *cobra.Command {
	var (
		entrypoint string
		problemKey string
		configPath string
		watch      bool
		gzipOut    bool
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "run <snippet.py>",
		Short: "Trace a single snippet and write its artifact as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if problemKey == "" {
				problemKey = filepath.Base(path)
			}

			run := func() error {
				return runOnce(path, problemKey, entrypoint, configPath, outPath, gzipOut)
			}

			if !watch {
				return run()
			}
			return watchAndRun(path, run)
		},
	}

	cmd.Flags().StringVar(&entrypoint, "entrypoint", "", "function name to call after the module body runs")
	cmd.Flags().StringVar(&problemKey, "problem-key", "", "stable key scoping node-ID assignment (defaults to the file name)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML tracer config (defaults built in if omitted)")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-trace whenever the snippet file changes")
	cmd.Flags().BoolVar(&gzipOut, "gzip", false, "gzip-compress the artifact output")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (defaults to stdout)")

	return cmd
}

func runOnce(path, problemKey, entrypoint, configPath, outPath string, gzipOut bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snippet: %w", err)
	}

	cfg := tracer.DefaultConfig()
	if configPath != "" {
		cfg, err = tracer.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	tr := tracer.New(
		tracer.WithConfig(cfg),
		tracer.WithLogger(logger),
	)

	art, err := tr.Run(context.Background(), src, problemKey, entrypoint, nil, nil)
	if err != nil {
		return fmt.Errorf("trace %q: %w", path, err)
	}

	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	return writeOutput(data, outPath, gzipOut)
}

func writeOutput(data []byte, outPath string, gzipOut bool) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output %q: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	if !gzipOut {
		_, err := out.Write(data)
		return err
	}

	gz := gzip.NewWriter(out)
	defer gz.Close()
	_, err := gz.Write(data)
	return err
}

// watchAndRun re-invokes run once immediately and again every time path's
// containing directory reports a write event for path, following the
// source pack's watcher-loop-over-fsnotify.Events shape.
func watchAndRun(path string, run func() error) error {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

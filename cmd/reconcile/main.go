package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"trade-reconciler/internal/httpapi"
	"trade-reconciler/internal/ingest"
	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/normalize"
	"trade-reconciler/internal/store"
	"trade-reconciler/internal/tradelog"
	"trade-reconciler/internal/types"
)

type app struct {
	cfg        *store.Config
	ticks      *instrument.Table
	pipeline   *ingest.Pipeline
	summarizer interfaces.Summarizer
	journal    *tradelog.Journal
	override   types.Format
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	in := flag.String("in", "", "broker export to reconcile (csv, tsv or semicolon separated)")
	kite := flag.Bool("kite", false, "reconcile today's Kite Connect tradebook")
	serve := flag.Bool("serve", false, "run the HTTP API")
	format := flag.String("format", "", "override detection: auto, order-based or trade-based")
	encoding := flag.String("encoding", "", "input encoding (overrides import.encoding)")
	outDir := flag.String("out", "", "output directory (overrides output.dir)")
	flag.Parse()

	if !*serve && !*kite && *in == "" {
		flag.Usage()
		return 2
	}

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer shutdownTracer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		return 1
	}
	if *format != "" {
		cfg.Import.Format = *format
	}
	if *encoding != "" {
		cfg.Import.Encoding = *encoding
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		logger.ErrorWithErr(ctx, "Invalid options", err)
		return 1
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize", err)
		return 1
	}

	switch {
	case *serve:
		err = a.serve(ctx)
	case *kite:
		err = a.reconcileKite(ctx)
	default:
		err = a.reconcileFile(ctx, *in)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Reconciliation failed", err)
		return 1
	}
	return 0
}

func newApp(ctx context.Context, cfg *store.Config) (*app, error) {
	ticks, err := initializeTicks(ctx, cfg)
	if err != nil {
		return nil, err
	}
	override, _ := types.ParseFormat(cfg.Import.Format)
	return &app{
		cfg:        cfg,
		ticks:      ticks,
		pipeline:   ingest.NewPipeline(normalize.New(ticks), initializeMatcher(ticks), cfg.Import.Workers, cfg.Import.SampleRows),
		summarizer: initializeSummarizer(cfg),
		journal:    initializeJournal(ctx, cfg),
		override:   override,
	}, nil
}

func (a *app) reconcileFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	res, err := a.pipeline.RunReader(ctx, path, f, a.cfg.Import.Encoding, a.override)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return a.finish(ctx, name, res)
}

func (a *app) reconcileKite(ctx context.Context) error {
	src, err := initializeBroker(a.cfg)
	if err != nil {
		return err
	}
	table, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	res, err := a.pipeline.Run(ctx, src.Name(), table, a.override)
	if err != nil {
		return err
	}
	return a.finish(ctx, "kite-"+time.Now().Format("2006-01-02"), res)
}

// finish prints the result to stdout, writes the summary CSV and journals closed trades.
func (a *app) finish(ctx context.Context, name string, res *ingest.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}

	if _, err := a.summarizer.WriteSummary(ctx, name, res.Closed); err != nil {
		return err
	}
	if a.journal != nil {
		p, err := a.journal.Append(res.Source, res.Closed)
		if err != nil {
			return fmt.Errorf("failed to journal trades: %w", err)
		}
		logger.Info(ctx, "Trades journaled", "path", p, "count", len(res.Closed))
	}
	return nil
}

func (a *app) serve(ctx context.Context) error {
	srvCfg, err := httpapi.LoadServerConfig()
	if err != nil {
		return err
	}
	c, err := initializeCache(a.cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	h := httpapi.NewHandler(a.pipeline, a.ticks, c, httpapi.HandlerOptions{
		Encoding:   a.cfg.Import.Encoding,
		SampleRows: a.cfg.Import.SampleRows,
		MaxUpload:  int64(a.cfg.Server.MaxUploadMB) << 20,
	})
	srv := httpapi.NewServer(h, srvCfg)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(ctx) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down HTTP server")
		return srv.Shutdown()
	}
}

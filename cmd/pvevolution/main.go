package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pvaudit/pvevolution/pkg/analysis"
	"github.com/pvaudit/pvevolution/pkg/dataset"
	"github.com/pvaudit/pvevolution/pkg/log"
	"github.com/pvaudit/pvevolution/pkg/metrics"
	"github.com/pvaudit/pvevolution/pkg/render"
	"github.com/pvaudit/pvevolution/pkg/viewer"
)

func main() {
	// init packages
	a := analysis.Configured()
	r := render.Configured()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := viewer.Configured(reg)

	// parse flags
	lflag.Configure()
	log.Configure()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := dataset.LoadRecords(dataset.MergedFile)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load merged data", slog.Any("error", err))
		os.Exit(1)
	}

	res, err := a.Analyze(ctx, records)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "analysis failed", slog.Any("error", err))
		os.Exit(1)
	}
	m.Observe(res)

	if srv.NoDisplay() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Summary); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to print summary", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	start := time.Now()
	png, err := r.Render(ctx, render.Compose(res))
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to render chart", slog.Any("error", err))
		os.Exit(1)
	}
	m.ObserveRender(time.Since(start))
	srv.Publish(png, res.Summary)

	// Run will block until the context is canceled or the listener fails
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "viewer failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "viewer exited cleanly")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"

	"github.com/pvaudit/pvevolution/pkg/log"
	"github.com/pvaudit/pvevolution/pkg/merge"
)

func main() {
	m := merge.Configured()

	// parse flags
	lflag.Configure()
	log.Configure()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := m.Run(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "merge failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "merge finished", slog.Int("records", len(records)))
}

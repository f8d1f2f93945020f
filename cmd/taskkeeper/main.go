package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/cli"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/reminder"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.SlogLevel())

	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer store.Close()

	client, err := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if cfg.CoalesceRefresh {
		sessionOpts = append(sessionOpts, session.WithRefreshCoalescing())
	}
	reminderOpts := []reminder.Option{reminder.WithLogger(logger)}
	if cfg.StrictReminderUnits {
		reminderOpts = append(reminderOpts, reminder.WithStrictUnits())
	}

	app := cli.NewApp(
		session.NewTokenCache(store, client, sessionOpts...),
		reminder.NewCodec(store, reminderOpts...),
		cfg.PersistToken,
		logger,
	)
	app.Run(ctx)

}

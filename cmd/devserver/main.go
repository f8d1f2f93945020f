package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/taskkeeper/internal/devserver"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := devserver.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	app := devserver.NewApp(cfg, logging.NewTextLogger(os.Stderr, slog.LevelInfo))
	if err := app.PrintDevToken(os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}

package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/client/cli"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

func loadConfig(args []string) (cfg *config.Config) {
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("config: %v", r)
		}
	}()
	return config.LoadConfig(args)
}

func main() {
	args := os.Args[1:]
	cfg := loadConfig(args)

	logFile, err := filex.AppendFile(cfg.LogPath())
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer logFile.Close()

	logger, err := logging.New(logFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger, cli.Options{})
	if err != nil {
		log.Fatalf("%v", err)
	}

	runErr := app.Run(ctx, flagx.StripArgs(args, config.OwnedFlags()))
	if err := app.Close(); err != nil {
		logger.Warn(ctx, "close", "error", err)
	}
	if runErr != nil {
		logFile.Close()
		os.Exit(1)
	}
}

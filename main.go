package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/cmd"
	"github.com/Icerzack/guessroom/internal/client"
	"github.com/Icerzack/guessroom/internal/rest"
	"github.com/Icerzack/guessroom/internal/stroke"
	"github.com/Icerzack/guessroom/internal/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	bootstrap, _ := zap.NewDevelopment()
	config, err := cmd.ParseConfig(*configPath, bootstrap)
	if err != nil {
		os.Exit(1)
	}

	level, err := utils.ParseLevel(config.Apps.LogLevel)
	if err != nil {
		bootstrap.Error("Invalid log level", zap.Error(err))
		os.Exit(1)
	}
	logger, err := utils.NewCustomLogger(level, config.Apps.LogToFiles)
	if err != nil {
		bootstrap.Error("Failed to create logger", zap.Error(err))
		os.Exit(1)
	}
	defer logger.Sync()

	appsManager := cmd.NewAppsManager(logger)

	canvas := stroke.Discard
	observers := client.Observers{client.NewLogObserver(logger)}

	var restApp *rest.Rest
	if config.Apps.Rest.Enabled {
		restApp = rest.NewRest(config.RestConfig(logger))
		canvas = restApp.Bridge()
		observers = append(observers, restApp.Bridge())
	}

	gameClient := client.New(config.ClientConfig(logger), canvas, observers)
	appsManager.Register(cmd.ClientApp, client.NewApp(gameClient, logger))

	if restApp != nil {
		restApp.Attach(gameClient)
		appsManager.Register(cmd.RestApp, restApp)
	}

	appsManager.RunAll()
	appsManager.WaitForShutdown()
}

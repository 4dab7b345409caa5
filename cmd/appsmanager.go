package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

type AppsManager struct {
	// names keeps registration order, apps are stopped in reverse
	names []string
	apps  map[string]App
	wg    *sync.WaitGroup

	// exited receives the name of every app whose Start returned
	exited chan string

	logger *zap.Logger
}

func NewAppsManager(logger *zap.Logger) *AppsManager {
	return &AppsManager{
		apps:   make(map[string]App),
		wg:     &sync.WaitGroup{},
		logger: logger,
	}
}

func (am *AppsManager) Register(name string, app App) {
	if _, ok := am.apps[name]; !ok {
		am.names = append(am.names, name)
	}
	am.apps[name] = app
}

func (am *AppsManager) RunAll() {
	am.exited = make(chan string, len(am.names))
	for _, name := range am.names {
		am.wg.Add(1)
		go func(name string, app App) {
			defer am.wg.Done()
			am.logger.Info("App started", zap.String("name", name))
			app.Start()
			am.exited <- name
		}(name, am.apps[name])
	}
}

func (am *AppsManager) StopAll() {
	for i := len(am.names) - 1; i >= 0; i-- {
		name := am.names[i]
		am.apps[name].Stop()
		am.logger.Info("App stopped", zap.String("name", name))
	}
}

// WaitForShutdown blocks until SIGINT or SIGTERM arrives or one of the apps
// exits on its own, then stops all apps and waits for them.
func (am *AppsManager) WaitForShutdown() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	am.wait(stop)
}

func (am *AppsManager) wait(stop <-chan os.Signal) {
	select {
	case sig := <-stop:
		am.logger.Info("Shutting down", zap.Stringer("signal", sig))
	case name := <-am.exited:
		am.logger.Info("App exited, shutting down", zap.String("name", name))
	}

	am.StopAll()
	am.wg.Wait()
}

package cmd

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeApp struct {
	name string
	log  *[]string
	mu   *sync.Mutex

	stop chan struct{}
	once sync.Once
}

func newFakeApp(name string, log *[]string, mu *sync.Mutex) *fakeApp {
	return &fakeApp{name: name, log: log, mu: mu, stop: make(chan struct{})}
}

func (a *fakeApp) Start() {
	<-a.stop
}

func (a *fakeApp) Stop() {
	a.mu.Lock()
	*a.log = append(*a.log, a.name)
	a.mu.Unlock()
	a.once.Do(func() { close(a.stop) })
}

func TestAppsManager_StopsInReverseOrderOnSignal(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		stopped []string
	)
	am := NewAppsManager(zap.NewNop())
	am.Register(ClientApp, newFakeApp(ClientApp, &stopped, &mu))
	am.Register(RestApp, newFakeApp(RestApp, &stopped, &mu))
	am.RunAll()

	signals := make(chan os.Signal, 1)
	signals <- syscall.SIGTERM
	finish(t, func() { am.wait(signals) })

	assert.Equal(t, []string{RestApp, ClientApp}, stopped)
}

func TestAppsManager_ShutsDownWhenAnAppExits(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		stopped []string
	)
	client := newFakeApp(ClientApp, &stopped, &mu)
	am := NewAppsManager(zap.NewNop())
	am.Register(ClientApp, client)
	am.Register(RestApp, newFakeApp(RestApp, &stopped, &mu))
	am.RunAll()

	// the client gives up by itself
	client.once.Do(func() { close(client.stop) })
	finish(t, func() { am.wait(make(chan os.Signal)) })

	assert.ElementsMatch(t, []string{RestApp, ClientApp}, stopped)
}

func finish(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("apps did not stop")
	}
}

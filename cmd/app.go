package cmd

const (
	ClientApp = "client"
	RestApp   = "rest"
)

// App is a long running part of the process. Start blocks until the app
// is done, Stop makes Start return.
type App interface {
	Start()
	Stop()
}

// Package shutdown coordinates graceful process shutdown across one or
// more managers (signal handling, external orchestrators) and a list of
// callbacks run once a shutdown is triggered.
package shutdown

import "github.com/kiosk404/echosql/pkg/logger"

// Func adapts a plain function to the Callback interface.
type Func func(name string) error

func (f Func) OnShutdown(name string) error { return f(name) }

// Callback runs when a shutdown has been triggered, named for logging.
type Callback interface {
	OnShutdown(name string) error
}

// Manager watches for a shutdown signal (OS signal, orchestrator
// notification, ...) and calls the given trigger func once it fires.
type Manager interface {
	GetName() string
	Start(trigger func(name string)) error
}

// GracefulShutdown owns the set of managers and callbacks for one
// process. Start begins watching every registered manager; the first one
// to fire runs every callback once.
type GracefulShutdown struct {
	managers  []Manager
	callbacks []Callback
}

func New() *GracefulShutdown {
	return &GracefulShutdown{}
}

func (gs *GracefulShutdown) AddShutdownManager(m Manager) {
	gs.managers = append(gs.managers, m)
}

func (gs *GracefulShutdown) AddShutdownCallback(cb Callback) {
	gs.callbacks = append(gs.callbacks, cb)
}

func (gs *GracefulShutdown) Start() error {
	for _, m := range gs.managers {
		if err := m.Start(gs.trigger); err != nil {
			return err
		}
	}
	return nil
}

func (gs *GracefulShutdown) trigger(name string) {
	logger.Info("shutdown triggered by %s", name)
	for _, cb := range gs.callbacks {
		if err := cb.OnShutdown(name); err != nil {
			logger.Error("shutdown callback failed: %v", err)
		}
	}
}

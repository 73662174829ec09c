// Package posixsignal is a shutdown.Manager backed by SIGINT/SIGTERM.
package posixsignal

import (
	"os"
	"os/signal"
	"syscall"
)

const Name = "posix-signal-manager"

type PosixSignalManager struct {
	signals []os.Signal
}

// NewPosixSignalManager returns a manager listening for the given
// signals, defaulting to SIGINT and SIGTERM when none are given.
func NewPosixSignalManager(sig ...os.Signal) *PosixSignalManager {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	return &PosixSignalManager{signals: sig}
}

func (m *PosixSignalManager) GetName() string {
	return Name
}

func (m *PosixSignalManager) Start(trigger func(name string)) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, m.signals...)
	go func() {
		<-c
		trigger(Name)
	}()
	return nil
}

package queryflow

import (
	"context"
	"time"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/pkg/logger"
)

// DefaultCrashRecoveryInterval and DefaultCrashRecoveryAge bound the
// background scan for requests stuck in_progress past a process crash or
// a lost repair-loop goroutine.
const (
	DefaultCrashRecoveryInterval = 30 * time.Second
	DefaultCrashRecoveryAge      = 5 * time.Minute
)

// CrashRecoveryMonitor periodically transitions in_progress requests older
// than maxAge to error, so a client polling GET /requests/:id never blocks
// forever on a request whose repair-loop goroutine died without updating
// it (process crash, panic recovered by gin.Recovery() mid-attempt, etc).
type CrashRecoveryMonitor struct {
	requests repo.RequestRepo
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
}

func NewCrashRecoveryMonitor(requests repo.RequestRepo, interval, maxAge time.Duration) *CrashRecoveryMonitor {
	return &CrashRecoveryMonitor{requests: requests, interval: interval, maxAge: maxAge, stopCh: make(chan struct{})}
}

// Start runs the scan loop in a background goroutine. Stop ends it.
func (m *CrashRecoveryMonitor) Start() {
	go m.loop()
}

func (m *CrashRecoveryMonitor) Stop() {
	close(m.stopCh)
}

func (m *CrashRecoveryMonitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopCh:
			return
		}
	}
}

func (m *CrashRecoveryMonitor) sweep() {
	ctx := context.Background()
	stale, err := m.requests.ListInProgressOlderThan(ctx, int64(m.maxAge.Seconds()))
	if err != nil {
		logger.ErrorX("queryflow", "crash recovery sweep: list stale requests: %v", err)
		return
	}
	for _, r := range stale {
		if err := r.MarkError(&entity.RequestError{Class: "other", Message: "request abandoned: no progress past the crash-recovery age bound"}); err != nil {
			continue
		}
		if err := m.requests.Update(ctx, r); err != nil {
			logger.ErrorX("queryflow", "crash recovery sweep: update request %s: %v", r.ID, err)
			continue
		}
		logger.WarnX("queryflow", "request %s recovered from stale in_progress to error", r.ID)
	}
}

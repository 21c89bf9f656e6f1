package scheduler

import (
	"context"
	"fmt"
	"sync"

	"midorisky/internal/modules/device/application/service"
	"midorisky/pkg/zlog"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerManager drives the device status simulator on a fixed cron
// schedule. One pass at a time; a pass still running when the next tick
// fires makes the new tick a no-op.
type SchedulerManager struct {
	cron      *cron.Cron
	simulator *service.Simulator
	spec      string
	mu        sync.Mutex
	running   bool
}

func NewSchedulerManager(sim *service.Simulator, cronSpec string) *SchedulerManager {
	return &SchedulerManager{
		cron:      cron.New(),
		simulator: sim,
		spec:      cronSpec,
	}
}

func (m *SchedulerManager) Start() error {
	_, err := m.cron.AddFunc(m.spec, m.tick)
	if err != nil {
		return fmt.Errorf("cron schedule %q: %w", m.spec, err)
	}
	m.cron.Start()
	zlog.Info("device simulator scheduler started", zap.String("spec", m.spec))
	return nil
}

// Stop halts the schedule and waits for an in-flight pass to finish.
func (m *SchedulerManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *SchedulerManager) tick() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		zlog.Warn("device status pass still running, skipping tick")
		return
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			zlog.Error("device status pass panic", zap.Any("panic", r))
		}
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	if err := m.simulator.Run(context.Background()); err != nil {
		zlog.Error("device status pass failed", zap.Error(err))
	}
}

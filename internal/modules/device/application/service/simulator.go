package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"midorisky/internal/modules/device/domain/entity"
	"midorisky/internal/modules/device/domain/repository"
	"midorisky/pkg/zlog"

	"go.uber.org/zap"
)

// AlertProducer is the slice of the notify producer the simulator needs.
type AlertProducer interface {
	EnqueueDeviceAlert(ctx context.Context, count int) error
}

// Simulator flips active IoT devices to inactive on a schedule, standing in
// for real device telemetry. Decisions are a pure function of serial number
// and tick timestamp, so re-running a pass for the same tick produces the
// same outcome.
type Simulator struct {
	repo      repository.DeviceRepository
	producer  AlertProducer
	chancePct int
	cooldown  int // days a device stays immune after its last downtime
	now       func() time.Time
}

func NewSimulator(repo repository.DeviceRepository, producer AlertProducer, chancePct, cooldownDays int) *Simulator {
	return &Simulator{
		repo:      repo,
		producer:  producer,
		chancePct: chancePct,
		cooldown:  cooldownDays,
		now:       time.Now,
	}
}

// Run executes one simulator pass. Every active device gets an audit log row
// for the tick; devices that flip also get a status update and a LastDowntime
// stamp. All writes land in one transaction, then a single device alert event
// carrying the flip count goes onto the queue.
func (s *Simulator) Run(ctx context.Context) error {
	tick := s.now().UTC().Truncate(30 * time.Minute)

	devices, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	var updates []*entity.IoTDevice
	logs := make([]*entity.IoTDeviceLog, 0, len(devices))

	for _, d := range devices {
		status := d.IoTStatus
		if canGoInactive(d.LastDowntime, tick, s.cooldown) &&
			shouldGoInactive(d.IoTSerialNumber, tick, s.chancePct) {
			status = entity.IoTStatusInactive
			down := tick
			d.IoTStatus = status
			d.LastDowntime = &down
			updates = append(updates, d)
		}
		logs = append(logs, &entity.IoTDeviceLog{
			IoTSerialNumber: d.IoTSerialNumber,
			IoTStatus:       status,
			PlotID:          d.PlotID,
			Timestamp:       tick,
			ChangedBy:       "system",
		})
	}

	if err := s.repo.ApplyStatusPass(ctx, updates, logs); err != nil {
		return err
	}

	zlog.Info("device status pass complete",
		zap.Time("tick", tick),
		zap.Int("checked", len(devices)),
		zap.Int("flipped", len(updates)),
	)

	if len(updates) > 0 {
		if err := s.producer.EnqueueDeviceAlert(ctx, len(updates)); err != nil {
			// The status writes are already committed; the alert is
			// advisory, so log and move on.
			zlog.Error("device alert enqueue failed", zap.Error(err))
		}
	}
	return nil
}

// canGoInactive enforces the downtime cooldown by calendar-date difference:
// a device becomes eligible again on the day the gap reaches cooldownDays,
// regardless of the time of day it went down.
func canGoInactive(lastDowntime *time.Time, now time.Time, cooldownDays int) bool {
	if lastDowntime == nil {
		return true
	}
	days := int(dateOf(now).Sub(dateOf(*lastDowntime)).Hours() / 24)
	return days >= cooldownDays
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// shouldGoInactive hashes the serial number with the tick's hour so the
// verdict is stable for a whole hour and uniform across devices. The hash is
// reduced mod 100 and compared against the configured percentage.
func shouldGoInactive(serial string, now time.Time, chancePct int) bool {
	hourTs := now.UTC().Truncate(time.Hour).Format(time.RFC3339)
	sum := sha256.Sum256([]byte(serial + "-" + hourTs))
	bucket := binary.BigEndian.Uint64(sum[:8]) % 100
	return bucket < uint64(chancePct)
}

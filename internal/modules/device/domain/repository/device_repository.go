package repository

import (
	"context"

	"midorisky/internal/modules/device/domain/entity"
)

type DeviceRepository interface {
	ListAll(ctx context.Context) ([]*entity.IoTDevice, error)
	ListActive(ctx context.Context) ([]*entity.IoTDevice, error)
	CreateDevice(ctx context.Context, d *entity.IoTDevice) error
	DeleteDevice(ctx context.Context, id int64) error

	// ApplyStatusPass writes one simulator tick: every flipped device row
	// plus every audit log row, in a single transaction so a mid-pass
	// fault leaves no partial update.
	ApplyStatusPass(ctx context.Context, updates []*entity.IoTDevice, logs []*entity.IoTDeviceLog) error
}

package persistence

import (
	"context"

	"midorisky/internal/modules/device/domain/entity"
	"midorisky/internal/modules/device/domain/repository"

	"gorm.io/gorm"
)

type deviceRepositoryImpl struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

func (r *deviceRepositoryImpl) ListAll(ctx context.Context) ([]*entity.IoTDevice, error) {
	var devices []*entity.IoTDevice
	err := r.db.WithContext(ctx).Find(&devices).Error
	return devices, err
}

func (r *deviceRepositoryImpl) ListActive(ctx context.Context) ([]*entity.IoTDevice, error) {
	var devices []*entity.IoTDevice
	err := r.db.WithContext(ctx).
		Where("IoTStatus = ?", entity.IoTStatusActive).
		Find(&devices).Error
	return devices, err
}

func (r *deviceRepositoryImpl) CreateDevice(ctx context.Context, d *entity.IoTDevice) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *deviceRepositoryImpl) DeleteDevice(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&entity.IoTDevice{}, id).Error
}

func (r *deviceRepositoryImpl) ApplyStatusPass(ctx context.Context, updates []*entity.IoTDevice, logs []*entity.IoTDeviceLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range updates {
			err := tx.Model(&entity.IoTDevice{}).
				Where("id = ?", d.ID).
				Updates(map[string]interface{}{
					"IoTStatus":    d.IoTStatus,
					"LastDowntime": d.LastDowntime,
				}).Error
			if err != nil {
				return err
			}
		}
		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

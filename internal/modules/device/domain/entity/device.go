package entity

import "time"

const (
	IoTStatusInactive = 0
	IoTStatusActive   = 1
)

type IoTDevice struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IoTType         string     `gorm:"column:IoTType;type:varchar(64);not null" json:"IoTType"`
	IoTSerialNumber string     `gorm:"column:IoTSerialNumber;type:varchar(64);uniqueIndex;not null" json:"IoTSerialNumber"`
	IoTStatus       int        `gorm:"column:IoTStatus;type:tinyint;not null;default:1" json:"IoTStatus"`
	PlotID          int64      `gorm:"column:PlotID;index" json:"PlotID"`
	LastDowntime    *time.Time `gorm:"column:LastDowntime" json:"LastDowntime"`
	LastUpdated     time.Time  `gorm:"column:LastUpdated;autoUpdateTime" json:"LastUpdated"`
}

func (IoTDevice) TableName() string {
	return "IoTDevices"
}

// IoTDeviceLog is append-only: one row per device per simulator pass,
// whether or not the status changed.
type IoTDeviceLog struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IoTSerialNumber string    `gorm:"column:IoTSerialNumber;type:varchar(64);index;not null" json:"IoTSerialNumber"`
	IoTStatus       int       `gorm:"column:IoTStatus;type:tinyint;not null" json:"IoTStatus"`
	PlotID          int64     `gorm:"column:PlotID" json:"PlotID"`
	Timestamp       time.Time `gorm:"column:Timestamp;not null" json:"Timestamp"`
	ChangedBy       string    `gorm:"column:ChangedBy;type:varchar(64);not null" json:"ChangedBy"`
}

func (IoTDeviceLog) TableName() string {
	return "IoTDeviceLog"
}

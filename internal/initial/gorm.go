package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"midorisky/internal/config"
	deviceEntity "midorisky/internal/modules/device/domain/entity"
	notifyEntity "midorisky/internal/modules/notify/domain/entity"
	taskEntity "midorisky/internal/modules/task/domain/entity"
	userEntity "midorisky/internal/modules/user/domain/entity"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormDB opens the MySQL connection and migrates the schema. The handle
// is constructed once in main and passed into every repository.
func NewGormDB(conf *config.Config) (*gorm.DB, error) {
	user := conf.MysqlConfig.User
	password := conf.MysqlConfig.Password
	host := conf.MysqlConfig.Host
	port := conf.MysqlConfig.Port
	dbName := conf.MysqlConfig.DatabaseName
	if dbName == "" {
		dbName = conf.AppName
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port, dbName)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&userEntity.User{},
		&taskEntity.Task{},
		&taskEntity.TaskAssignee{},
		&taskEntity.TaskComment{},
		&notifyEntity.Notification{},
		&notifyEntity.WsConnection{},
		&deviceEntity.IoTDevice{},
		&deviceEntity.IoTDeviceLog{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

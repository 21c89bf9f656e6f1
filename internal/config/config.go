package config

import (
	"log"
	"os"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type KafkaConfig struct {
	Brokers         []string `toml:"brokers"`
	ClientID        string   `toml:"clientID"`
	NotifyTopic     string   `toml:"notifyTopic"`
	ConsumerGroupID string   `toml:"consumerGroupID"`
	BatchSize       int      `toml:"batchSize"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// SimulatorConfig drives the IoT downtime simulator. DowntimeChancePct is
// compared against a mod-100 hash, so 3 means a 3% flip chance per eligible
// device per tick.
type SimulatorConfig struct {
	CronSpec          string `toml:"cronSpec"`
	DowntimeChancePct int    `toml:"downtimeChancePct"`
	CooldownDays      int    `toml:"cooldownDays"`
}

type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	JwtConfig       `toml:"jwtConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	RedisConfig     `toml:"redisConfig"`
	MailConfig      `toml:"mailConfig"`
	SimulatorConfig `toml:"simulatorConfig"`
	LogConfig       `toml:"logConfig"`
}

var config *Config

func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	configPath := os.Getenv("MIDORI_CONFIG")
	if configPath == "" {
		configPath = "configs/config_local.toml"
	}

	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("failed to load config file %s: %v, falling back to defaults", configPath, err)
		return err
	}
	applyDefaults(config)
	return nil
}

func applyDefaults(c *Config) {
	if c.KafkaConfig.BatchSize <= 0 {
		c.KafkaConfig.BatchSize = 5
	}
	if c.SimulatorConfig.CronSpec == "" {
		c.SimulatorConfig.CronSpec = "*/30 * * * *"
	}
	if c.SimulatorConfig.DowntimeChancePct <= 0 {
		c.SimulatorConfig.DowntimeChancePct = 3
	}
	if c.SimulatorConfig.CooldownDays <= 0 {
		c.SimulatorConfig.CooldownDays = 40
	}
}

func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		applyDefaults(config)
	}
	return config
}

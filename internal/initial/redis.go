package initial

import (
	"context"
	"fmt"
	"time"

	"midorisky/internal/config"
	"midorisky/pkg/redis"
	"midorisky/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
)

// InitRedis connects the unread-counter cache. Redis is optional: when the
// host is unset or unreachable the counters fall back to SQL counts.
func InitRedis(conf *config.Config) {
	host := conf.RedisConfig.Host
	port := conf.RedisConfig.Port

	if host == "" {
		zlog.Info("redis not configured, skipping")
		return
	}

	if port == 0 {
		port = 6379
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	zlog.Info(fmt.Sprintf("redis connecting: %s", addr))

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     conf.RedisConfig.Password,
		DB:           conf.RedisConfig.DB,
		PoolSize:     conf.RedisConfig.PoolSize,
		MinIdleConns: conf.RedisConfig.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Error(fmt.Sprintf("redis connect failed: %v", err))
		_ = client.Close()
		return
	}

	redis.SetClient(client)
	zlog.Info("redis connected")
}

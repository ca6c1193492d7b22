package config

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ConnectRedis returns nil without error when REDIS_ADDR is unset: caching is optional.
func ConnectRedis(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUser,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	RedisClient = rdb
	log.Println("Connected to Redis:", res)
	return rdb, nil
}

package services

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetFromRedis decodes the value stored at key into target. found is false on a
// cache miss or when rdb is nil.
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	cachedData, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(cachedData, target); err != nil {
		return false, err
	}
	return true, nil
}

func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

func DeleteFromRedis(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// DeleteKeysByPattern removes every key matching pattern using SCAN.
func DeleteKeysByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return DeleteFromRedis(ctx, rdb, keys...)
}

// AcquireLock takes a best-effort distributed lock. The returned release
// function is safe to call when rdb is nil.
func AcquireLock(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (bool, func(), error) {
	if rdb == nil {
		return true, func() {}, nil
	}
	ok, err := rdb.SetNX(ctx, key, "1", ttl).Result()
	if err != nil || !ok {
		return false, func() {}, err
	}
	return true, func() {
		rdb.Del(context.Background(), key)
	}, nil
}

package table

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisTableTracker struct {
	rdclient *redis.Client
}

func NewRedisTableTracker(redisURL string, redisPW string, redisDB int) *RedisTableTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisTableTracker{
		rdclient: rdclient,
	}
}

func (r *RedisTableTracker) key(code string) string {
	return fmt.Sprintf("table.%s", code)
}

func (r *RedisTableTracker) Load(code string) (*Snapshot, error) {
	snapshotBytes, err := r.rdclient.Get(context.Background(), r.key(code)).Result()
	if err == redis.Nil {
		return nil, NotFoundError{Code: code}
	} else if err != nil {
		return nil, err
	}
	return UnmarshalSnapshot([]byte(snapshotBytes))
}

func (r *RedisTableTracker) Save(code string, snapshot *Snapshot) error {
	snapshotBytes, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), r.key(code), snapshotBytes, 0).Err()
}

func (r *RedisTableTracker) Remove(code string) error {
	return r.rdclient.Del(context.Background(), r.key(code)).Err()
}

package comparisons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/mandate/pkg/cache"
)

// RedisStore is a Store backed by Redis keys with a TTL.
type RedisStore struct {
	client redis.UniversalClient
	key    func(string) string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore on the cache's client and key namespace.
func NewRedisStore(c cache.System, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: c.Client(),
		key:    c.Key,
		ttl:    ttl,
	}
}

func (s *RedisStore) jobKey(id uuid.UUID) string {
	return s.key("comparisons:" + id.String())
}

func (s *RedisStore) Create(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.jobKey(job.JobID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create job %s: %w", job.JobID, err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *RedisStore) Update(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	err = s.client.SetArgs(ctx, s.jobKey(job.JobID), data, redis.SetArgs{
		Mode:    "XX",
		KeepTTL: true,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.JobID, err)
	}
	return nil
}

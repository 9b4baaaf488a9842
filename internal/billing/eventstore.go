package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowvera/flowvera/internal/config"
	domain "github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// NewEventStore returns a Redis-backed store when REDIS_URL is set, an
// in-memory one otherwise. The returned close func releases resources.
func NewEventStore(ctx context.Context, cfg config.RedisConfig, ttl time.Duration, log *logger.Logger) (domain.EventStore, func() error, error) {
	if cfg.URL == "" {
		mem := NewMemoryEventStore(ttl)
		go mem.Run(ctx, time.Minute)
		log.Info("Webhook event dedup using in-memory store")
		return mem, func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info("Webhook event dedup using redis")
	return NewRedisEventStore(rdb, ttl), rdb.Close, nil
}

// MemoryEventStore remembers event ids in process for ttl.
type MemoryEventStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryEventStore(ttl time.Duration) *MemoryEventStore {
	return &MemoryEventStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryEventStore) MarkProcessed(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.seen[id]; ok && now.Before(exp) {
		return false, nil
	}
	s.seen[id] = now.Add(s.ttl)
	return true, nil
}

func (s *MemoryEventStore) Forget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
	return nil
}

// Run evicts expired ids every interval until ctx is done.
func (s *MemoryEventStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

func (s *MemoryEventStore) evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.seen {
		if !now.Before(exp) {
			delete(s.seen, id)
		}
	}
}

// RedisEventStore uses SETNX with a TTL so multiple API instances agree.
type RedisEventStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisEventStore(rdb *redis.Client, ttl time.Duration) *RedisEventStore {
	return &RedisEventStore{rdb: rdb, ttl: ttl}
}

func (s *RedisEventStore) MarkProcessed(ctx context.Context, id string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, eventKey(id), time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisEventStore) Forget(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, eventKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection for readiness probes.
func (s *RedisEventStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func eventKey(id string) string {
	return "flowvera:webhook:" + id
}

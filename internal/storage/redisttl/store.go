package redisttl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainErrors "github.com/rewardly/giftvault/internal/domain/errors"
)

const keyPrefix = "giftvault:redemption:"

// Store keeps one ephemeral Redis key per active redemption. Redis evicts the
// key once its TTL passes and publishes an expiry event on the keyspace
// notification channel; the key's presence is what "still claimable" means.
type Store struct {
	client *redis.Client
	db     int
	logger *slog.Logger
}

// New connects to Redis and enables keyspace notifications for expired keys.
func New(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	// "Ex" publishes expired-key events, which drive the watcher. Managed
	// Redis offerings may reject CONFIG SET; the sweeper still reconciles
	// expiry without events, so this is not fatal.
	if err := client.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		logger.Warn("cannot enable keyspace notifications", slog.String("error", err.Error()))
	}

	return &Store{client: client, db: db, logger: logger}, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Put creates the expiry record for a redemption id.
func (s *Store) Put(ctx context.Context, id int64, expireAt time.Time) error {
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return fmt.Errorf("expiry %s is in the past", expireAt)
	}
	ok, err := s.client.SetNX(ctx, recordKey(id), "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("put expiry record: %w", err)
	}
	if !ok {
		return domainErrors.ErrDuplicateKey
	}
	return nil
}

// DeleteByID removes the expiry record; absent ids are not an error.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if err := s.client.Del(ctx, recordKey(id)).Err(); err != nil {
		return fmt.Errorf("delete expiry record: %w", err)
	}
	return nil
}

// ListIDs returns the redemption ids whose records are still alive.
func (s *Store) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if id, ok := parseRecordKey(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan expiry records: %w", err)
	}
	return ids, nil
}

// Subscribe opens the expired-key event stream and returns a channel of
// redemption ids whose records Redis evicted. The channel closes when the
// subscription terminates; there is no reconnection, the periodic sweep covers
// missed events.
func (s *Store) Subscribe(ctx context.Context) (<-chan int64, error) {
	channel := fmt.Sprintf("__keyevent@%d__:expired", s.db)
	pubsub := s.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe expiry events: %w", err)
	}

	out := make(chan int64)
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				id, ok := parseRecordKey(msg.Payload)
				if !ok {
					continue
				}
				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// HealthCheck verifies Redis connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func recordKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func parseRecordKey(key string) (int64, bool) {
	raw, found := strings.CutPrefix(key, keyPrefix)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	NotificationsChannel = "fleet:notifications"
	boltLastSyncKey      = "bolt:last-sync"
	boltLastSyncTTL      = 24 * time.Hour
)

// InitRedis connects to REDIS_URL and pings it
func InitRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return client, nil
}

type notificationEvent struct {
	Notifications []models.AppNotification `json:"notifications"`
	Timestamp     int64                    `json:"timestamp"`
}

// RedisPublisher publishes new notifications so every API instance can push
// them to its websocket clients.
type RedisPublisher struct {
	Client *redis.Client
}

func (p *RedisPublisher) Deliver(ctx context.Context, notifications []models.AppNotification) error {
	data, err := json.Marshal(notificationEvent{Notifications: notifications, Timestamp: time.Now().Unix()})
	if err != nil {
		return err
	}
	return p.Client.Publish(ctx, NotificationsChannel, data).Err()
}

// SubscribeNotifications forwards published notifications to sink until ctx is done.
func SubscribeNotifications(ctx context.Context, client *redis.Client, sink Sink) {
	pubsub := client.Subscribe(ctx, NotificationsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event notificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshaling notification event: %v", err)
				continue
			}
			if err := sink.Deliver(ctx, event.Notifications); err != nil {
				log.Printf("Error forwarding notification event: %v", err)
			}
		}
	}
}

// releaseLock deletes the lock only while it still holds the caller's token,
// so an instance whose lock expired cannot free a lock taken by another one.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockClient is the part of the redis client RedisSyncLock needs
type LockClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisSyncLock is a SyncLock shared by all API instances
type RedisSyncLock struct {
	client LockClient

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisSyncLock(client LockClient) *RedisSyncLock {
	return &RedisSyncLock{client: client, tokens: make(map[string]string)}
}

func (l *RedisSyncLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, "lock:"+key, token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

func (l *RedisSyncLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	return releaseLock.Run(ctx, l.client, []string{"lock:" + key}, token).Err()
}

// SetLastBoltSync caches the latest Bolt payload for a day
func SetLastBoltSync(ctx context.Context, client *redis.Client, payload *BoltPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return client.Set(ctx, boltLastSyncKey, data, boltLastSyncTTL).Err()
}

// GetLastBoltSync returns the cached payload, or nil when none is cached
func GetLastBoltSync(ctx context.Context, client *redis.Client) (*BoltPayload, error) {
	data, err := client.Get(ctx, boltLastSyncKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var payload BoltPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

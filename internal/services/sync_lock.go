package services

import (
	"context"
	"sync"
	"time"
)

// SyncLock guards long-running jobs such as the Bolt sync against concurrent runs
type SyncLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// LocalSyncLock is the in-process SyncLock used when Redis is not configured
type LocalSyncLock struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewLocalSyncLock() *LocalSyncLock {
	return &LocalSyncLock{held: make(map[string]time.Time), clock: time.Now}
}

func (l *LocalSyncLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expires, ok := l.held[key]; ok && now.Before(expires) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *LocalSyncLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

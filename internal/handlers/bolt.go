package handlers

import (
	"context"
	"log"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	boltSyncLockKey = "bolt-sync"
	boltSyncLockTTL = 2 * time.Minute
)

// SyncBolt pulls drivers, vehicles and earnings from Bolt and merges them into
// the fleet. Only one sync may run at a time across instances.
func SyncBolt(s *store.Store, client services.BoltClient, lock services.SyncLock, rdb *redis.Client, fallback services.BoltCredentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		acquired, err := lock.Acquire(ctx, boltSyncLockKey, boltSyncLockTTL)
		if err != nil {
			log.Printf("Error acquiring Bolt sync lock: %v", err)
			c.JSON(500, gin.H{"error": "Failed to start synchronization"})
			return
		}
		if !acquired {
			c.JSON(409, gin.H{"error": "A Bolt synchronization is already in progress"})
			return
		}
		defer func() {
			// the client may be gone by now; the lock must still be freed
			if err := lock.Release(context.WithoutCancel(ctx), boltSyncLockKey); err != nil {
				log.Printf("Error releasing Bolt sync lock: %v", err)
			}
		}()

		creds := services.ResolveBoltCredentials(s.Settings(), fallback)
		payload, err := client.Sync(ctx, creds)
		if err != nil {
			log.Printf("Bolt sync failed: %v", err)
			c.JSON(502, gin.H{"error": err.Error()})
			return
		}

		result, err := s.ApplyBoltSync(ctx, payload)
		if err != nil {
			respondError(c, err)
			return
		}

		if rdb != nil {
			if err := services.SetLastBoltSync(ctx, rdb, payload); err != nil {
				log.Printf("Warning: failed to cache Bolt payload: %v", err)
			}
		}

		c.JSON(200, result)
	}
}

// GetLastBoltSync returns the raw payload of the most recent sync
func GetLastBoltSync(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.JSON(404, gin.H{"error": "No Bolt synchronization cached"})
			return
		}
		payload, err := services.GetLastBoltSync(c.Request.Context(), rdb)
		if err != nil {
			log.Printf("Error reading cached Bolt payload: %v", err)
			c.JSON(500, gin.H{"error": "Failed to read cached synchronization"})
			return
		}
		if payload == nil {
			c.JSON(404, gin.H{"error": "No Bolt synchronization cached"})
			return
		}
		c.JSON(200, payload)
	}
}

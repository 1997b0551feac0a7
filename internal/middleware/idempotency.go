package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyCacheKeyCtx = "idempotency_cache_key"
	idempotencyLockKeyCtx  = "idempotency_lock_key"
	idempotencyResultTTL   = 24 * time.Hour
)

// Idempotency protects money-moving POST endpoints against duplicate
// submissions. Clients opt in with an Idempotency-Key header: a cached result
// is replayed, and an in-flight duplicate is rejected with 409 via a short
// Redis lock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			json.Unmarshal([]byte(val), &cachedRes)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true, "data": cachedRes})
			return
		}

		// Short expiry so a crashed request does not wedge the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A duplicate request is already being processed",
			})
			return
		}

		c.Set(idempotencyCacheKeyCtx, cacheKey)
		c.Set(idempotencyLockKeyCtx, lockKey)

		c.Next()
	}
}

// StoreIdempotentResult caches the successful response body for replay and
// releases the in-flight lock. Handlers call it after committing.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, data any) {
	cacheKey := c.GetString(idempotencyCacheKeyCtx)
	lockKey := c.GetString(idempotencyLockKeyCtx)
	if cacheKey == "" {
		return
	}

	if payload, err := json.Marshal(data); err == nil {
		rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyResultTTL)
	}
	if lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}

// ReleaseIdempotencyLock drops the lock without caching, so a failed request
// can be retried with the same key.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if lockKey := c.GetString(idempotencyLockKeyCtx); lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}

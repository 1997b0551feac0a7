package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	handled := false
	r := gin.New()
	r.POST("/pay", middleware.Idempotency(rdb), func(c *gin.Context) {
		handled = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	r.ServeHTTP(w, req)

	assert.True(t, handled)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		t.Fatal("handler must not run on a cached key")
	})

	cacheKey := "idemp:/pay:u1:abc"
	redisMock.ExpectGet(cacheKey).SetVal(`{"amount":2500}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2500")
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestIdempotency_RejectsInFlightDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		t.Fatal("handler must not run while a duplicate is in flight")
	})

	cacheKey := "idemp:/pay:u1:abc"
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestIdempotency_StoresResultAfterSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		middleware.StoreIdempotentResult(c, rdb, gin.H{"amount": 2500})
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	cacheKey := "idemp:/pay:u1:abc"
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)
	redisMock.ExpectSet(cacheKey, []byte(`{"amount":2500}`), 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel(cacheKey + ":lock").SetVal(1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// fakeRedis is an in-memory RedisClient for middleware tests.
type fakeRedis struct {
	mu    sync.Mutex
	data  map[string]string
	fail  bool
	calls int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return redis.NewStringResult("", context.DeadlineExceeded)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return redis.NewStatusResult("", context.DeadlineExceeded)
	}
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return redis.NewBoolResult(false, context.DeadlineExceeded)
	}
	if _, exists := f.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func setupIdempotencyRouter(store RedisClient, handlerCalls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Idempotency(DefaultIdempotencyConfig(store)))
	router.POST("/reserve", func(c *gin.Context) {
		*handlerCalls++
		c.JSON(http.StatusCreated, gin.H{"id": *handlerCalls})
	})
	return router
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	store := newFakeRedis()
	handlerCalls := 0
	router := setupIdempotencyRouter(store, &handlerCalls)

	body := `{"room_id":101}`
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(body))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := do()
	if first.Code != http.StatusCreated {
		t.Fatalf("first request status = %d, want %d", first.Code, http.StatusCreated)
	}

	second := do()
	if second.Code != http.StatusCreated {
		t.Errorf("replayed status = %d, want %d", second.Code, http.StatusCreated)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replayed body = %q, want %q", second.Body.String(), first.Body.String())
	}
	if handlerCalls != 1 {
		t.Errorf("handler calls = %d, want 1", handlerCalls)
	}
}

func TestIdempotency_KeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeRedis()
	handlerCalls := 0
	router := setupIdempotencyRouter(store, &handlerCalls)

	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(`{"room_id":101}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	req = httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(`{"room_id":202}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	if handlerCalls != 1 {
		t.Errorf("handler calls = %d, want 1", handlerCalls)
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	store := newFakeRedis()
	handlerCalls := 0
	router := setupIdempotencyRouter(store, &handlerCalls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
		}
	}
	if handlerCalls != 2 {
		t.Errorf("handler calls = %d, want 2", handlerCalls)
	}
	if store.calls != 0 {
		t.Errorf("redis calls = %d, want 0", store.calls)
	}
}

func TestIdempotency_FailsOpenOnRedisError(t *testing.T) {
	store := newFakeRedis()
	store.fail = true
	handlerCalls := 0
	router := setupIdempotencyRouter(store, &handlerCalls)

	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if handlerCalls != 1 {
		t.Errorf("handler calls = %d, want 1", handlerCalls)
	}
}

func TestIdempotency_InProgressConflict(t *testing.T) {
	store := newFakeRedis()
	handlerCalls := 0

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Idempotency(DefaultIdempotencyConfig(store)))

	release := make(chan struct{})
	started := make(chan struct{})
	router.POST("/reserve", func(c *gin.Context) {
		handlerCalls++
		if handlerCalls == 1 {
			close(started)
			<-release
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}()

	<-started

	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("concurrent request status = %d, want %d", w.Code, http.StatusConflict)
	}

	close(release)
	<-firstDone
}

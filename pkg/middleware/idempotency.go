package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/hoteleria/reservation-engine/pkg/response"
)

// IdempotencyKeyHeader is the client-supplied key that makes a write
// request safe to retry.
const IdempotencyKeyHeader = "X-Idempotency-Key"

const idempotencyKeyPrefix = "idempotency:"

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

// idempotencyRecord is what gets stored in Redis per key.
type idempotencyRecord struct {
	Key          string            `json:"key"`
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// RedisClient is the slice of go-redis this middleware needs. Satisfied by
// pkg/redis.Client and by test fakes.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type IdempotencyConfig struct {
	Redis RedisClient
	// TTL is how long a completed response stays replayable.
	TTL time.Duration
	// ProcessingTTL bounds how long an in-flight record blocks retries,
	// so a crashed request does not wedge its key forever.
	ProcessingTTL time.Duration
}

func DefaultIdempotencyConfig(redis RedisClient) *IdempotencyConfig {
	return &IdempotencyConfig{
		Redis:         redis,
		TTL:           5 * time.Minute,
		ProcessingTTL: 60 * time.Second,
	}
}

// Idempotency replays the cached response for repeated requests carrying the
// same X-Idempotency-Key. Requests without the header pass through untouched.
// A Redis outage fails open so booking traffic keeps flowing.
func Idempotency(config *IdempotencyConfig) gin.HandlerFunc {
	if config.ProcessingTTL == 0 {
		config.ProcessingTTL = 60 * time.Second
	}
	if config.TTL == 0 {
		config.TTL = 5 * time.Minute
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// The body is consumed for hashing and restored for the handler.
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		hash := fingerprint(c.Request.Method, c.Request.URL.Path, body)
		redisKey := idempotencyKeyPrefix + key
		ctx := c.Request.Context()

		existing, err := loadRecord(ctx, config.Redis, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			c.Next() // fail open
			return
		}
		if existing != nil {
			answerFromRecord(c, existing, hash)
			return
		}

		record := &idempotencyRecord{
			Key:         key,
			Status:      statusProcessing,
			RequestHash: hash,
			CreatedAt:   time.Now(),
		}

		// SetNX so exactly one concurrent request claims the key. Losing
		// the claim means someone else got here first; answer from their
		// record.
		if !claimKey(ctx, config.Redis, redisKey, record, config.ProcessingTTL) {
			if existing, _ = loadRecord(ctx, config.Redis, redisKey); existing != nil {
				answerFromRecord(c, existing, hash)
				return
			}
		}

		rw := &captureWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
			status:         http.StatusOK,
		}
		c.Writer = rw

		c.Next()

		now := time.Now()
		record.Status = statusCompleted
		record.ResponseCode = rw.status
		record.ResponseBody = rw.body.String()
		record.CompletedAt = &now
		storeRecord(ctx, config.Redis, redisKey, record, config.TTL)
	}
}

// answerFromRecord resolves a request whose key already has a record:
// reject key reuse with a different payload, report in-flight duplicates,
// replay completed responses.
func answerFromRecord(c *gin.Context, rec *idempotencyRecord, hash string) {
	switch {
	case rec.RequestHash != hash:
		response.UnprocessableEntity(c, "IDEMPOTENCY_KEY_REUSED", "idempotency key already used with a different request")
	case rec.Status == statusProcessing:
		response.Conflict(c, "REQUEST_IN_PROGRESS", "a request with this idempotency key is already being processed")
	default:
		c.Data(rec.ResponseCode, "application/json", []byte(rec.ResponseBody))
	}
	c.Abort()
}

// captureWriter buffers the response so it can be cached for replay.
type captureWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func loadRecord(ctx context.Context, rc RedisClient, key string) (*idempotencyRecord, error) {
	raw, err := rc.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func claimKey(ctx context.Context, rc RedisClient, key string, rec *idempotencyRecord, ttl time.Duration) bool {
	data, err := json.Marshal(rec)
	if err != nil {
		return false
	}
	ok, err := rc.SetNX(ctx, key, string(data), ttl).Result()
	return err == nil && ok
}

func storeRecord(ctx context.Context, rc RedisClient, key string, rec *idempotencyRecord, ttl time.Duration) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	rc.Set(ctx, key, string(data), ttl)
}

package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo  repository.IdempotencyRepository
	Clock clock.Clock
	Log   *zap.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a staff member repeats a
// request with the same Idempotency-Key. Requests without a key proceed
// normally. Only 2xx responses are stored, so a failed checkout can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		actor, ok := GetActor(c)
		if !ok {
			response.Unauthorized(c, "Staff not authenticated")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Failed to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, actor.StaffID)
		if err != nil {
			response.ErrorWithCode(c, http.StatusInternalServerError, "Failed to check idempotency key")
			c.Abort()
			return
		}

		if existing != nil && existing.IsExpired(clk.Now()) {
			if err := config.Repo.DeleteExpired(c.Request.Context(), clk.Now()); err != nil {
				log.Warn("failed to purge expired idempotency keys", zap.Error(err))
			}
			existing = nil
		}
		if existing != nil {
			if existing.Endpoint != endpoint || existing.RequestHash != requestHash {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			StaffID:      actor.StaffID,
			Endpoint:     endpoint,
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    clk.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
			log.Warn("failed to store idempotency key", zap.String("endpoint", endpoint), zap.Error(err))
		}
	}
}

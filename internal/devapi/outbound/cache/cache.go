package cache

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyPrefix     = "devapi:otp:"
	fieldHash     = "hash"
	fieldAttempts = "attempts"

	maxWatchRetries = 4
)

// Cache keeps one pending code per email as a Redis hash holding the code
// digest and the failed attempt count.
type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func New(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func key(email string) string {
	return keyPrefix + strings.ToLower(email)
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("devapi.outbound.cache").Start(ctx, name)
}

// SaveCode replaces any pending code for email.
func (c *Cache) SaveCode(ctx context.Context, email string, hash []byte, ttl time.Duration) error {
	ctx, span := c.startSpan(ctx, "SaveCode")
	defer span.End()

	k := key(email)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, fieldHash, string(hash), fieldAttempts, 0)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// ConsumeCode checks hash against the pending code for email. A match deletes
// the record. A mismatch counts an attempt and the record is dropped once
// maxAttempts is reached. Missing records yield goerror.ErrNotFound.
func (c *Cache) ConsumeCode(ctx context.Context, email string, hash []byte, maxAttempts int) error {
	ctx, span := c.startSpan(ctx, "ConsumeCode")
	defer span.End()

	k := key(email)
	for range maxWatchRetries {
		err := c.client.Watch(ctx, func(tx *redis.Tx) error {
			rec, err := tx.HGetAll(ctx, k).Result()
			if err != nil {
				return err
			}
			if len(rec) == 0 {
				return goerror.ErrNotFound
			}

			attempts, err := strconv.Atoi(rec[fieldAttempts])
			if err != nil {
				return fmt.Errorf("corrupt attempts value %q: %w", rec[fieldAttempts], err)
			}

			if subtle.ConstantTimeCompare([]byte(rec[fieldHash]), hash) == 1 {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, k)
					return nil
				})
				return err
			}

			attempts++
			exhausted := attempts >= maxAttempts
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if exhausted {
					pipe.Del(ctx, k)
				} else {
					pipe.HIncrBy(ctx, k, fieldAttempts, 1)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if exhausted {
				return entity.ErrAttemptsExceeded
			}
			return entity.ErrCodeMismatch
		}, k)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !isOutcome(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}

	return goerror.ErrConflict
}

func isOutcome(err error) bool {
	return errors.Is(err, goerror.ErrNotFound) ||
		errors.Is(err, entity.ErrCodeMismatch) ||
		errors.Is(err, entity.ErrAttemptsExceeded)
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/erp-ledger/internal/application/numbering"
	"github.com/jhoicas/erp-ledger/pkg/config"
)

var _ numbering.Counter = (*RedisSequence)(nil)

const defaultKeyPrefix = "erp:seq:"

// RedisSequence contador de numeración con INCR: atómico entre todas las instancias
// que comparten el servidor Redis.
type RedisSequence struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient abre la conexión y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisSequence construye el contador sobre un cliente existente.
func NewRedisSequence(client *redis.Client, keyPrefix string) *RedisSequence {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisSequence{client: client, keyPrefix: keyPrefix}
}

// Key clave del contador: erp:seq:<tipo>:<aaaa>:<mm>.
func (s *RedisSequence) Key(docType string, year, month int) string {
	return fmt.Sprintf("%s%s:%04d:%02d", s.keyPrefix, docType, year, month)
}

// Next incrementa y devuelve la secuencia del período.
func (s *RedisSequence) Next(ctx context.Context, docType string, year, month int) (int64, error) {
	n, err := s.client.Incr(ctx, s.Key(docType, year, month)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return n, nil
}

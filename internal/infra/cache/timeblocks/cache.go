// Package timeblocks кеширует справочник временных блоков в redis.
// Ошибки redis не ломают чтение: запрос уходит в нижележащий справочник.
package timeblocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

const (
	keyPrefix  = "therapy:timeblocks:"
	listKey    = keyPrefix + "all"
	DefaultTTL = 5 * time.Minute
)

// Client подмножество команд redis, которое использует кеш
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Catalog справочник, поверх которого работает кеш
type Catalog interface {
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
	GetTimeBlock(ctx context.Context, id int64) (*domain.TimeBlock, error)
	ListTimeBlocks(ctx context.Context) ([]*domain.TimeBlock, error)
	ListSpaces(ctx context.Context) ([]*domain.Space, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// CachedCatalog read-through кеш для блоков, остальные методы проксируются
type CachedCatalog struct {
	Catalog
	client Client
	ttl    time.Duration
	logger Logger
}

// New оборачивает справочник кешем. ttl <= 0 заменяется на DefaultTTL
func New(catalog Catalog, client Client, ttl time.Duration, logger Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedCatalog{
		Catalog: catalog,
		client:  client,
		ttl:     ttl,
		logger:  logger,
	}
}

// Connect создает клиента redis и проверяет соединение
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// ListTimeBlocks возвращает блоки из кеша или из справочника
func (c *CachedCatalog) ListTimeBlocks(ctx context.Context) ([]*domain.TimeBlock, error) {
	var blocks []*domain.TimeBlock
	if c.load(ctx, listKey, &blocks) {
		return blocks, nil
	}

	blocks, err := c.Catalog.ListTimeBlocks(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, listKey, blocks)
	return blocks, nil
}

// GetTimeBlock возвращает блок из кеша или из справочника
// Отсутствующий блок не кешируется
func (c *CachedCatalog) GetTimeBlock(ctx context.Context, id int64) (*domain.TimeBlock, error) {
	key := fmt.Sprintf("%s%d", keyPrefix, id)

	var block domain.TimeBlock
	if c.load(ctx, key, &block) {
		return &block, nil
	}

	found, err := c.Catalog.GetTimeBlock(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, found)
	return found, nil
}

func (c *CachedCatalog) load(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("timeblocks cache: get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("timeblocks cache: corrupted value for %s: %v", key, err)
		return false
	}

	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("timeblocks cache: marshal %s failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("timeblocks cache: set %s failed: %v", key, err)
	}
}

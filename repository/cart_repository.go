package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"sportsstore/models"

	"github.com/redis/go-redis/v9"
)

// CartRepository persists one cart per shopping session.
type CartRepository interface {
	// GetCart returns the session's cart, or an empty cart when none is stored.
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

func (r *RedisCartRepository) getKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (r *RedisCartRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, err
	}

	cart := models.NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

// SaveCart stores the cart and refreshes its TTL. An empty cart removes the key.
func (r *RedisCartRepository) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart.IsEmpty() {
		return r.DeleteCart(ctx, sessionID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(sessionID), data, r.ttl).Err()
}

func (r *RedisCartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.getKey(sessionID)).Err()
}

// MemoryCartRepository keeps carts in process memory as JSON, so a handler
// never shares a live *Cart with another request.
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string][]byte)}
}

func (r *MemoryCartRepository) GetCart(_ context.Context, sessionID string) (*models.Cart, error) {
	r.mu.Lock()
	data, ok := r.carts[sessionID]
	r.mu.Unlock()

	cart := models.NewCart()
	if !ok {
		return cart, nil
	}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

func (r *MemoryCartRepository) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart.IsEmpty() {
		return r.DeleteCart(ctx, sessionID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.carts[sessionID] = data
	r.mu.Unlock()
	return nil
}

func (r *MemoryCartRepository) DeleteCart(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
	return nil
}

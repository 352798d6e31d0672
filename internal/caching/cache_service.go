package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"matflow/internal/models"
)

// CacheService is a read-through cache for catalog and inventory lookups.
// Cache failures are never fatal; callers log and fall through to the
// database.
type CacheService interface {
	GetMaterial(ctx context.Context, materialID uuid.UUID) (*models.Material, error)
	SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error
	DeleteMaterial(ctx context.Context, materialID uuid.UUID) error

	GetInventory(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error)
	SetInventory(ctx context.Context, record *models.InventoryRecord, ttl time.Duration) error
	DeleteInventory(ctx context.Context, materialID uuid.UUID) error

	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func materialKey(id uuid.UUID) string {
	return fmt.Sprintf("matflow:material:%s", id.String())
}

func inventoryKey(materialID uuid.UUID) string {
	return fmt.Sprintf("matflow:inventory:%s", materialID.String())
}

func (r *redisCacheService) GetMaterial(ctx context.Context, materialID uuid.UUID) (*models.Material, error) {
	data, err := r.client.Get(ctx, materialKey(materialID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var material models.Material
	if err := json.Unmarshal(data, &material); err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *redisCacheService) SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error {
	data, err := json.Marshal(material)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, materialKey(material.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteMaterial(ctx context.Context, materialID uuid.UUID) error {
	return r.client.Del(ctx, materialKey(materialID)).Err()
}

func (r *redisCacheService) GetInventory(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error) {
	data, err := r.client.Get(ctx, inventoryKey(materialID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var record models.InventoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *redisCacheService) SetInventory(ctx context.Context, record *models.InventoryRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, inventoryKey(record.MaterialID), data, ttl).Err()
}

func (r *redisCacheService) DeleteInventory(ctx context.Context, materialID uuid.UUID) error {
	return r.client.Del(ctx, inventoryKey(materialID)).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "matflow:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

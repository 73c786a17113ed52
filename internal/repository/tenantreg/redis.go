// Package tenantreg persists the tenant registry. Two backends: redis
// (shares the document store connection) and an embedded badger store.
package tenantreg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/surplusgrid/equisearch/internal/db"
	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// kv is the consumer interface for tenant records (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// storeErr surfaces connectivity failures as domain sentinels. Other store
// errors pass through untouched.
func storeErr(err error) error {
	switch {
	case errors.Is(err, db.ErrTimeout):
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

// RedisRegistry implements the tenant registry over the shared key-value store.
type RedisRegistry struct {
	kv     kv
	prefix string
}

// NewRedisRegistry creates a redis-backed tenant registry.
func NewRedisRegistry(kv kv, keyPrefix string) *RedisRegistry {
	return &RedisRegistry{kv: kv, prefix: keyPrefix}
}

func (r *RedisRegistry) tenantKey(id string) string {
	return r.prefix + "tenant:" + id
}

// Register stores a tenant. SET NX picks exactly one winner under concurrent
// registration of the same id; losers get ErrTenantExists.
func (r *RedisRegistry) Register(ctx context.Context, t *tenant.Tenant) error {
	data, err := marshalTenantJSON(t)
	if err != nil {
		return fmt.Errorf("marshal tenant %s: %w", t.ID(), err)
	}

	won, err := r.kv.SetNX(ctx, r.tenantKey(t.ID()), data)
	if err != nil {
		return fmt.Errorf("set nx %s: %w", t.ID(), storeErr(err))
	}
	if !won {
		return domain.ErrTenantExists
	}
	return nil
}

// Get returns a tenant by id.
func (r *RedisRegistry) Get(ctx context.Context, id string) (tenant.Tenant, error) {
	raw, err := r.kv.Get(ctx, r.tenantKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return tenant.Tenant{}, domain.ErrTenantNotFound
		}
		return tenant.Tenant{}, fmt.Errorf("get tenant %s: %w", id, storeErr(err))
	}
	return unmarshalTenantJSON(raw)
}

// List returns all registered tenants in unspecified order.
func (r *RedisRegistry) List(ctx context.Context) ([]tenant.Tenant, error) {
	keys, err := r.kv.Scan(ctx, r.prefix+"tenant:*")
	if err != nil {
		return nil, fmt.Errorf("scan tenants: %w", storeErr(err))
	}

	tenants := make([]tenant.Tenant, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimPrefix(key, r.prefix+"tenant:")
		t, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrTenantNotFound) {
				// Deleted between SCAN and GET.
				continue
			}
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, nil
}

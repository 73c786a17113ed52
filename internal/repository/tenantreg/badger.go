package tenantreg

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

const badgerTenantPrefix = "tenant:"

// BadgerRegistry implements the tenant registry over an embedded badger store.
// Useful for single-node deployments that should not put registry traffic on
// the document store.
type BadgerRegistry struct {
	db     *badger.DB
	logger *zap.Logger
}

// badgerLogger adapts zap to the badger.Logger interface.
type badgerLogger struct {
	logger *zap.SugaredLogger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(msg string, args ...any)   { l.logger.Errorf(msg, args...) }
func (l *badgerLogger) Warningf(msg string, args ...any) { l.logger.Warnf(msg, args...) }
func (l *badgerLogger) Infof(msg string, args ...any)    { l.logger.Debugf(msg, args...) }
func (l *badgerLogger) Debugf(msg string, args ...any)   { l.logger.Debugf(msg, args...) }

// OpenBadgerRegistry opens (or creates) a badger-backed registry at path.
// An empty path opens an in-memory store.
func OpenBadgerRegistry(path string, logger *zap.Logger) (*BadgerRegistry, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create registry dir %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLogger{logger: logger.Sugar()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger registry: %w", err)
	}
	return &BadgerRegistry{db: db, logger: logger}, nil
}

// Close closes the underlying store.
func (r *BadgerRegistry) Close() error {
	return r.db.Close()
}

func badgerTenantKey(id string) []byte {
	return []byte(badgerTenantPrefix + id)
}

// Register stores a tenant. The read-check and write share one transaction,
// so concurrent registration of the same id has exactly one winner.
func (r *BadgerRegistry) Register(_ context.Context, t *tenant.Tenant) error {
	err := r.db.Update(func(tx *badger.Txn) error {
		key := badgerTenantKey(t.ID())
		if _, err := tx.Get(key); err == nil {
			return domain.ErrTenantExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return tx.Set(key, marshalTenantMUS(t))
	})
	if err != nil {
		if errors.Is(err, domain.ErrTenantExists) {
			return domain.ErrTenantExists
		}
		return fmt.Errorf("register tenant %s: %w", t.ID(), err)
	}
	return nil
}

// Get returns a tenant by id.
func (r *BadgerRegistry) Get(_ context.Context, id string) (tenant.Tenant, error) {
	var out tenant.Tenant
	err := r.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(badgerTenantKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrTenantNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			t, err := unmarshalTenantMUS(val)
			if err != nil {
				return err
			}
			out = t
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return tenant.Tenant{}, domain.ErrTenantNotFound
		}
		return tenant.Tenant{}, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return out, nil
}

// List returns all registered tenants in key order.
func (r *BadgerRegistry) List(_ context.Context) ([]tenant.Tenant, error) {
	var tenants []tenant.Tenant
	err := r.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerTenantPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				t, err := unmarshalTenantMUS(val)
				if err != nil {
					return err
				}
				tenants = append(tenants, t)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

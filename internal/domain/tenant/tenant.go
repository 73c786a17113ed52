// Package tenant defines the tenant aggregate and routing-key derivation.
package tenant

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Tenant is a registered party owning a partition of equipment documents
// (immutable value object).
type Tenant struct {
	id          string
	name        string
	industry    string
	routingKey  string
	marketplace bool
	createdAt   time.Time
}

// New validates and creates a Tenant, deriving its routing key. The key is
// computed exactly once here; storage must persist and return it verbatim.
func New(id, name, industry string) (Tenant, error) {
	if id == "" {
		return Tenant{}, fmt.Errorf("tenant id is required")
	}
	if name == "" {
		return Tenant{}, fmt.Errorf("tenant name is required")
	}
	return Tenant{
		id:          id,
		name:        name,
		industry:    industry,
		routingKey:  RoutingKey(id),
		marketplace: true,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Tenant without validation (storage hydration).
func Reconstruct(id, name, industry, routingKey string, marketplace bool, createdAt time.Time) Tenant {
	return Tenant{
		id: id, name: name, industry: industry,
		routingKey: routingKey, marketplace: marketplace, createdAt: createdAt,
	}
}

// RoutingKey derives the partition key for a tenant id. SHA-256 keeps the
// tenant→key relation stable and collision-resistant across the tenant's
// lifetime.
func RoutingKey(tenantID string) string {
	sum := sha256.Sum256([]byte(tenantID))
	return hex.EncodeToString(sum[:])
}

// ID returns the tenant identifier.
func (t *Tenant) ID() string { return t.id }

// Name returns the display name.
func (t *Tenant) Name() string { return t.name }

// Industry returns the industry label.
func (t *Tenant) Industry() string { return t.industry }

// RoutingKey returns the derived partition key.
func (t *Tenant) RoutingKey() string { return t.routingKey }

// MarketplaceAccess reports whether the tenant's listings may surface to others.
func (t *Tenant) MarketplaceAccess() bool { return t.marketplace }

// CreatedAt returns the registration time.
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }

// WithMarketplaceAccess returns a copy with marketplace access toggled.
func (t *Tenant) WithMarketplaceAccess(v bool) Tenant {
	c := *t
	c.marketplace = v
	return c
}

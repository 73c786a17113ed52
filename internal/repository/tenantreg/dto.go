package tenantreg

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// tenantDTO is the stored JSON shape of a tenant record (redis backend).
type tenantDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	RoutingKey  string    `json:"routing_key"`
	Marketplace bool      `json:"marketplace_access"`
	CreatedAt   time.Time `json:"created_at"`
}

func marshalTenantJSON(t *tenant.Tenant) ([]byte, error) {
	return json.Marshal(tenantDTO{
		ID:          t.ID(),
		Name:        t.Name(),
		Industry:    t.Industry(),
		RoutingKey:  t.RoutingKey(),
		Marketplace: t.MarketplaceAccess(),
		CreatedAt:   t.CreatedAt().UTC(),
	})
}

func unmarshalTenantJSON(data []byte) (tenant.Tenant, error) {
	var dto tenantDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal tenant: %w", err)
	}
	return tenant.Reconstruct(dto.ID, dto.Name, dto.Industry, dto.RoutingKey, dto.Marketplace, dto.CreatedAt), nil
}

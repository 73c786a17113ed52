package tenantreg

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// marshalTenantMUS serializes a tenant for the badger backend: four strings,
// the marketplace flag, and the creation time as unix microseconds.
func marshalTenantMUS(t *tenant.Tenant) []byte {
	created := t.CreatedAt().UnixMicro()
	size := ord.String.Size(t.ID()) +
		ord.String.Size(t.Name()) +
		ord.String.Size(t.Industry()) +
		ord.String.Size(t.RoutingKey()) +
		ord.Bool.Size(t.MarketplaceAccess()) +
		varint.Int64.Size(created)

	buf := make([]byte, size)
	n := ord.String.Marshal(t.ID(), buf)
	n += ord.String.Marshal(t.Name(), buf[n:])
	n += ord.String.Marshal(t.Industry(), buf[n:])
	n += ord.String.Marshal(t.RoutingKey(), buf[n:])
	n += ord.Bool.Marshal(t.MarketplaceAccess(), buf[n:])
	varint.Int64.Marshal(created, buf[n:])
	return buf
}

// unmarshalTenantMUS deserializes a tenant record written by marshalTenantMUS.
func unmarshalTenantMUS(data []byte) (tenant.Tenant, error) {
	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal tenant id: %w", err)
	}
	name, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal tenant name: %w", err)
	}
	n += m
	industry, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal tenant industry: %w", err)
	}
	n += m
	routingKey, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal routing key: %w", err)
	}
	n += m
	marketplace, m, err := ord.Bool.Unmarshal(data[n:])
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal marketplace flag: %w", err)
	}
	n += m
	created, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("unmarshal created at: %w", err)
	}

	return tenant.Reconstruct(id, name, industry, routingKey, marketplace,
		time.UnixMicro(created).UTC()), nil
}

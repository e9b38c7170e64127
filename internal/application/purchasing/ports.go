package purchasing

import (
	"context"

	domain "github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierDirectory validates supplier references at order creation.
// The supplier master data lives in the parent platform.
type SupplierDirectory interface {
	Exists(ctx context.Context, supplierID uuid.UUID) (bool, error)
}

// VariantCatalog validates product variant references at order creation.
// The catalog lives in the parent platform.
type VariantCatalog interface {
	Exists(ctx context.Context, variantID uuid.UUID) (bool, error)
}

// InventoryPublisher hands inventory-adjustment intents to the stock
// system. Publishing is fire-and-forget: a failed publish never rolls
// back a recorded delivery, the intents are also part of the response.
type InventoryPublisher interface {
	PublishAdjustments(ctx context.Context, intents []domain.InventoryAdjustmentIntent)
}

// EventPublisher relays domain events collected on the aggregate after a
// committed change. Same fire-and-forget contract as InventoryPublisher:
// the audit entry is the durable record, events are a notification.
type EventPublisher interface {
	Publish(ctx context.Context, events []shared.DomainEvent)
}

// Package integration provides the default implementations of the
// collaborator ports. Supplier and variant master data live in the parent
// platform, so the stock implementations here accept every reference and
// publish inventory adjustments to the log only. Real implementations are
// swapped in by the embedding platform.
package integration

import (
	"context"

	domain "github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissiveDirectory accepts any supplier or variant reference. It
// satisfies both the SupplierDirectory and VariantCatalog ports.
type PermissiveDirectory struct {
	log  *zap.Logger
	kind string
}

// NewSupplierDirectory creates a directory that accepts every supplier ID
func NewSupplierDirectory(log *zap.Logger) *PermissiveDirectory {
	return &PermissiveDirectory{log: log, kind: "supplier"}
}

// NewVariantCatalog creates a catalog that accepts every variant ID
func NewVariantCatalog(log *zap.Logger) *PermissiveDirectory {
	return &PermissiveDirectory{log: log, kind: "variant"}
}

// Exists always reports true
func (d *PermissiveDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	if d.log != nil {
		d.log.Debug("reference lookup accepted",
			zap.String("kind", d.kind),
			zap.String("id", id.String()),
		)
	}
	return true, nil
}

// LogInventoryPublisher writes inventory-adjustment intents to the log.
// The intents also travel in the receive response, so downstream systems
// lose nothing when no broker is attached.
type LogInventoryPublisher struct {
	log *zap.Logger
}

// NewLogInventoryPublisher creates a publisher backed by the given logger
func NewLogInventoryPublisher(log *zap.Logger) *LogInventoryPublisher {
	return &LogInventoryPublisher{log: log}
}

// PublishAdjustments logs one entry per intent
func (p *LogInventoryPublisher) PublishAdjustments(_ context.Context, intents []domain.InventoryAdjustmentIntent) {
	if p.log == nil {
		return
	}
	for _, intent := range intents {
		p.log.Info("inventory adjustment intent",
			zap.String("order_id", intent.OrderID.String()),
			zap.String("line_id", intent.LineID.String()),
			zap.String("variant_id", intent.VariantID.String()),
			zap.String("quantity", intent.Quantity.String()),
		)
	}
}

// LogEventPublisher writes committed domain events to the log. The audit
// trail stays the durable record; a broker-backed publisher can replace
// this when the embedding platform provides one.
type LogEventPublisher struct {
	log *zap.Logger
}

// NewLogEventPublisher creates a publisher backed by the given logger
func NewLogEventPublisher(log *zap.Logger) *LogEventPublisher {
	return &LogEventPublisher{log: log}
}

// Publish logs one entry per event
func (p *LogEventPublisher) Publish(_ context.Context, events []shared.DomainEvent) {
	if p.log == nil {
		return
	}
	for _, event := range events {
		p.log.Info("domain event",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
}

package purchasing

import (
	"context"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines persistence operations for purchase orders.
// Mutations carry the audit entry for the change so the order update and
// the audit append commit in a single transaction.
type PurchaseOrderRepository interface {
	// FindByID retrieves an order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll retrieves orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Count returns the number of orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns per-status order counts for the dashboard
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// Create persists a new draft order together with its creation audit entry
	Create(ctx context.Context, order *PurchaseOrder, entry *AuditEntry) error

	// SaveWithVersion persists a mutated order with optimistic locking:
	// the update succeeds only if the stored version still equals
	// expectedVersion, and increments the version by one. The audit entry
	// is appended in the same transaction.
	SaveWithVersion(ctx context.Context, order *PurchaseOrder, expectedVersion int, entry *AuditEntry) error

	// ExistsByPONumber checks whether an order number is already taken
	ExistsByPONumber(ctx context.Context, poNumber string) (bool, error)

	// GeneratePONumber produces the next unique PO-YYYY-NNNNN number
	GeneratePONumber(ctx context.Context) (string, error)
}

// AuditLogRepository reads the append-only order timeline. Writes happen
// only through PurchaseOrderRepository inside the order transaction.
type AuditLogRepository interface {
	// History returns all entries for an order, oldest first
	History(ctx context.Context, orderID uuid.UUID) ([]AuditEntry, error)
}

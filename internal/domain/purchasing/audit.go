package purchasing

import (
	"maps"
	"strings"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// OperationCreate is the audit operation name for order creation, which is
// not a state-machine transition but is recorded in the timeline anyway
const OperationCreate = "create"

// AuditEntry is one append-only record in a purchase order's timeline.
// Entries are never updated or deleted. Creation is recorded with an empty
// FromStatus; partial deliveries with FromStatus == ToStatus.
type AuditEntry struct {
	shared.BaseEntity
	OrderID    uuid.UUID      `json:"order_id"`
	FromStatus Status         `json:"from_status"`
	ToStatus   Status         `json:"to_status"`
	Operation  string         `json:"operation"`
	Actor      string         `json:"actor"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// NewAuditEntry creates an audit entry for a lifecycle change
func NewAuditEntry(orderID uuid.UUID, from, to Status, operation, actor string, payload map[string]any) (*AuditEntry, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "audit entry requires an order")
	}
	if strings.TrimSpace(operation) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "audit entry requires an operation")
	}
	if !to.IsValid() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "audit entry requires a valid target status")
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = "system"
	}

	entry := &AuditEntry{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		Operation:  operation,
		Actor:      actor,
	}
	if len(payload) > 0 {
		entry.Payload = make(map[string]any, len(payload))
		maps.Copy(entry.Payload, payload)
	}
	return entry, nil
}

// IsPartialDelivery returns true for entries recording a delivery that did
// not change the order status
func (e *AuditEntry) IsPartialDelivery() bool {
	return e.FromStatus == e.ToStatus && e.Operation == OperationReceive.String()
}

// GetPayload returns a defensive copy of the payload
func (e *AuditEntry) GetPayload() map[string]any {
	if e.Payload == nil {
		return nil
	}
	payload := make(map[string]any, len(e.Payload))
	maps.Copy(payload, e.Payload)
	return payload
}

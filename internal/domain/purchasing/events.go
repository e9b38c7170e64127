package purchasing

import (
	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypePurchaseOrder identifies the aggregate in event metadata
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event types for the purchase order lifecycle
const (
	EventTypePurchaseOrderCreated          = "purchasing.purchase_order.created"
	EventTypePurchaseOrderSent             = "purchasing.purchase_order.sent"
	EventTypePurchaseOrderConfirmed        = "purchasing.purchase_order.confirmed"
	EventTypePurchaseOrderRejected         = "purchasing.purchase_order.rejected"
	EventTypePurchaseOrderDeliveryRecorded = "purchasing.purchase_order.delivery_recorded"
	EventTypePurchaseOrderInvoiced         = "purchasing.purchase_order.invoiced"
	EventTypePurchaseOrderClosed           = "purchasing.purchase_order.closed"
)

// PurchaseOrderCreatedEvent is raised when a draft order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	PONumber   string    `json:"po_number"`
	SupplierID uuid.UUID `json:"supplier_id"`
	LineCount  int       `json:"line_count"`
}

// NewPurchaseOrderCreatedEvent creates a new created event
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, order.ID, AggregateTypePurchaseOrder),
		OrderID:         order.ID,
		PONumber:        order.PONumber,
		SupplierID:      order.SupplierID,
		LineCount:       len(order.Lines),
	}
}

// PurchaseOrderSentEvent is raised when the order is sent to the supplier
type PurchaseOrderSentEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	PONumber   string    `json:"po_number"`
	SupplierID uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderSentEvent creates a new sent event
func NewPurchaseOrderSentEvent(order *PurchaseOrder) *PurchaseOrderSentEvent {
	return &PurchaseOrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSent, order.ID, AggregateTypePurchaseOrder),
		OrderID:         order.ID,
		PONumber:        order.PONumber,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderConfirmedEvent is raised when the supplier confirms the order
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	PONumber string    `json:"po_number"`
}

// NewPurchaseOrderConfirmedEvent creates a new confirmed event
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, order.ID, AggregateTypePurchaseOrder),
		OrderID:         order.ID,
		PONumber:        order.PONumber,
	}
}

// PurchaseOrderRejectedEvent is raised when the supplier rejects the order
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	PONumber string    `json:"po_number"`
	Reason   string    `json:"reason"`
}

// NewPurchaseOrderRejectedEvent creates a new rejected event
func NewPurchaseOrderRejectedEvent(order *PurchaseOrder, reason string) *PurchaseOrderRejectedEvent {
	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderRejected, order.ID, AggregateTypePurchaseOrder),
		OrderID:         order.ID,
		PONumber:        order.PONumber,
		Reason:          reason,
	}
}

// DeliveredLineInfo summarizes one delivered line in the event payload
type DeliveredLineInfo struct {
	LineID    uuid.UUID       `json:"line_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Delivered decimal.Decimal `json:"delivered"`
	Remaining decimal.Decimal `json:"remaining"`
}

// PurchaseOrderDeliveryRecordedEvent is raised for every reconciled
// delivery, partial or completing
type PurchaseOrderDeliveryRecordedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID           `json:"order_id"`
	PONumber  string              `json:"po_number"`
	Completed bool                `json:"completed"`
	Lines     []DeliveredLineInfo `json:"lines"`
}

// NewPurchaseOrderDeliveryRecordedEvent creates a new delivery event
func NewPurchaseOrderDeliveryRecordedEvent(order *PurchaseOrder, result *ReconcileResult) *PurchaseOrderDeliveryRecordedEvent {
	lines := make([]DeliveredLineInfo, 0, len(result.Adjustments))
	for _, adj := range result.Adjustments {
		lines = append(lines, DeliveredLineInfo{
			LineID:    adj.LineID,
			VariantID: adj.VariantID,
			Delivered: adj.Delivered,
			Remaining: adj.Remaining,
		})
	}
	return &PurchaseOrderDeliveryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderDeliveryRecorded, order.ID, AggregateTypePurchaseOrder),
		OrderID:         order.ID,
		PONumber:        order.PONumber,
		Completed:       result.Complete,
		Lines:           lines,
	}
}

// PurchaseOrderInvoicedEvent is raised when the supplier invoice is recorded
type PurchaseOrderInvoicedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID       `json:"order_id"`
	PONumber         string          `json:"po_number"`
	InvoiceReference string          `json:"invoice_reference"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderInvoicedEvent creates a new invoiced event
func NewPurchaseOrderInvoicedEvent(order *PurchaseOrder, reference string) *PurchaseOrderInvoicedEvent {
	return &PurchaseOrderInvoicedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePurchaseOrderInvoiced, order.ID, AggregateTypePurchaseOrder),
		OrderID:          order.ID,
		PONumber:         order.PONumber,
		InvoiceReference: reference,
		TotalAmount:      order.TotalAmount(),
	}
}

// PurchaseOrderClosedEvent is raised when the order is archived
type PurchaseOrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	PONumber string    `json:"po_number"`
}

// NewPurchaseOrderClosedEvent creates a new closed event
func NewPurchaseOrderClosedEvent(order *PurchaseOrder) *PurchaseOrderClosedEvent {
	return &PurchaseOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderClosed, order.ID, AggregateTypePurchaseOrder),
		OrderID:         order.ID,
		PONumber:        order.PONumber,
	}
}

package purchasing

import (
	"time"

	domain "github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLineInput is one line of a creation request
type CreateLineInput struct {
	VariantID  uuid.UUID
	OrderedQty decimal.Decimal
	UnitPrice  *decimal.Decimal
}

// CreatePurchaseOrderRequest is the application-level creation payload
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID
	ExpectedDate *time.Time
	Lines        []CreateLineInput
}

// ReceiveLineInput is one delivered line of a receive request
type ReceiveLineInput struct {
	LineID   uuid.UUID
	Quantity decimal.Decimal
}

// ReceiveRequest is the application-level receive payload
type ReceiveRequest struct {
	Lines            []ReceiveLineInput
	AllowOverReceipt bool
}

// ListPurchaseOrdersRequest carries list filtering options
type ListPurchaseOrdersRequest struct {
	Page     int
	PageSize int
	Status   string
	Supplier *uuid.UUID
	OrderBy  string
	Order    string
}

// LineResponse is the API shape of an order line
type LineResponse struct {
	ID           uuid.UUID        `json:"id"`
	VariantID    uuid.UUID        `json:"variant_id"`
	OrderedQty   decimal.Decimal  `json:"ordered_qty"`
	ReceivedQty  decimal.Decimal  `json:"received_qty"`
	RemainingQty decimal.Decimal  `json:"remaining_qty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
}

// PurchaseOrderResponse is the API shape of a purchase order
type PurchaseOrderResponse struct {
	ID                uuid.UUID       `json:"id"`
	PONumber          string          `json:"po_number"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	Status            string          `json:"status"`
	Version           int             `json:"version"`
	Lines             []LineResponse  `json:"lines"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ReceiveProgress   decimal.Decimal `json:"receive_progress"`
	AllowedOperations []string        `json:"allowed_operations"`
	ExpectedDate      *time.Time      `json:"expected_date,omitempty"`
	InvoiceReference  string          `json:"invoice_reference,omitempty"`
	RejectReason      string          `json:"reject_reason,omitempty"`
	SentAt            *time.Time      `json:"sent_at,omitempty"`
	ConfirmedAt       *time.Time      `json:"confirmed_at,omitempty"`
	RejectedAt        *time.Time      `json:"rejected_at,omitempty"`
	ReceivedAt        *time.Time      `json:"received_at,omitempty"`
	InvoicedAt        *time.Time      `json:"invoiced_at,omitempty"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// AdjustmentResponse is the API shape of one reconciled line
type AdjustmentResponse struct {
	LineID       uuid.UUID       `json:"line_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	Previous     decimal.Decimal `json:"previous_received"`
	Delivered    decimal.Decimal `json:"delivered"`
	NewReceived  decimal.Decimal `json:"new_received"`
	Remaining    decimal.Decimal `json:"remaining"`
	OverReceived bool            `json:"over_received"`
}

// IntentResponse is the API shape of an inventory-adjustment intent
type IntentResponse struct {
	OrderID   uuid.UUID       `json:"order_id"`
	LineID    uuid.UUID       `json:"line_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReceiveResponse is returned from the receive operation
type ReceiveResponse struct {
	Order       *PurchaseOrderResponse `json:"order"`
	Completed   bool                   `json:"completed"`
	Adjustments []AdjustmentResponse   `json:"adjustments"`
	Intents     []IntentResponse       `json:"inventory_intents"`
}

// HistoryEntryResponse is the API shape of one audit timeline entry
type HistoryEntryResponse struct {
	ID         uuid.UUID      `json:"id"`
	FromStatus string         `json:"from_status"`
	ToStatus   string         `json:"to_status"`
	Operation  string         `json:"operation"`
	Actor      string         `json:"actor"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// StatusSummaryResponse carries per-status order counts for the dashboard
type StatusSummaryResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ToPurchaseOrderResponse converts a domain order to its API shape
func ToPurchaseOrderResponse(order *domain.PurchaseOrder) *PurchaseOrderResponse {
	lines := make([]LineResponse, 0, len(order.Lines))
	for i := range order.Lines {
		l := &order.Lines[i]
		lines = append(lines, LineResponse{
			ID:           l.ID,
			VariantID:    l.VariantID,
			OrderedQty:   l.OrderedQty,
			ReceivedQty:  l.ReceivedQty,
			RemainingQty: l.RemainingQuantity(),
			UnitPrice:    l.UnitPrice,
			Amount:       l.Amount(),
		})
	}

	ops := order.AllowedOperations()
	opNames := make([]string, 0, len(ops))
	for _, op := range ops {
		opNames = append(opNames, op.String())
	}

	return &PurchaseOrderResponse{
		ID:                order.ID,
		PONumber:          order.PONumber,
		SupplierID:        order.SupplierID,
		Status:            order.Status.String(),
		Version:           order.GetVersion(),
		Lines:             lines,
		TotalAmount:       order.TotalAmount(),
		ReceiveProgress:   order.ReceiveProgress(),
		AllowedOperations: opNames,
		ExpectedDate:      order.ExpectedDate,
		InvoiceReference:  order.InvoiceReference,
		RejectReason:      order.RejectReason,
		SentAt:            order.SentAt,
		ConfirmedAt:       order.ConfirmedAt,
		RejectedAt:        order.RejectedAt,
		ReceivedAt:        order.ReceivedAt,
		InvoicedAt:        order.InvoicedAt,
		ClosedAt:          order.ClosedAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// ToReceiveResponse converts a reconcile result and the updated order
func ToReceiveResponse(order *domain.PurchaseOrder, result *domain.ReconcileResult) *ReceiveResponse {
	adjustments := make([]AdjustmentResponse, 0, len(result.Adjustments))
	for _, adj := range result.Adjustments {
		adjustments = append(adjustments, AdjustmentResponse{
			LineID:       adj.LineID,
			VariantID:    adj.VariantID,
			Previous:     adj.Previous,
			Delivered:    adj.Delivered,
			NewReceived:  adj.NewReceived,
			Remaining:    adj.Remaining,
			OverReceived: adj.OverReceived,
		})
	}
	intents := make([]IntentResponse, 0, len(result.Intents))
	for _, intent := range result.Intents {
		intents = append(intents, IntentResponse{
			OrderID:   intent.OrderID,
			LineID:    intent.LineID,
			VariantID: intent.VariantID,
			Quantity:  intent.Quantity,
		})
	}
	return &ReceiveResponse{
		Order:       ToPurchaseOrderResponse(order),
		Completed:   result.Complete,
		Adjustments: adjustments,
		Intents:     intents,
	}
}

// ToHistoryEntryResponse converts an audit entry to its API shape
func ToHistoryEntryResponse(entry *domain.AuditEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:         entry.ID,
		FromStatus: entry.FromStatus.String(),
		ToStatus:   entry.ToStatus.String(),
		Operation:  entry.Operation,
		Actor:      entry.Actor,
		Payload:    entry.GetPayload(),
		CreatedAt:  entry.CreatedAt,
	}
}

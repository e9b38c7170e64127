package purchasing

import (
	"fmt"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryLine is one line of a goods receipt as reported by the warehouse
type DeliveryLine struct {
	LineID   uuid.UUID
	Quantity decimal.Decimal
}

// LineAdjustment describes how one order line changed during reconciliation
type LineAdjustment struct {
	LineID       uuid.UUID       `json:"line_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	Previous     decimal.Decimal `json:"previous_received"`
	Delivered    decimal.Decimal `json:"delivered"`
	NewReceived  decimal.Decimal `json:"new_received"`
	Remaining    decimal.Decimal `json:"remaining"`
	OverReceived bool            `json:"over_received"`
}

// InventoryAdjustmentIntent is the stock movement the inventory system
// should apply for a delivered line. This service only emits intents;
// applying them is the inventory module's job.
type InventoryAdjustmentIntent struct {
	OrderID   uuid.UUID       `json:"order_id"`
	LineID    uuid.UUID       `json:"line_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReconcileResult is the outcome of a successfully validated delivery batch
type ReconcileResult struct {
	Adjustments []LineAdjustment
	Intents     []InventoryAdjustmentIntent
	Complete    bool
}

// Reconcile validates a delivery batch against the order lines and computes
// the per-line adjustments. Validation is all-or-nothing: a single bad line
// rejects the whole batch and nothing is applied. Over-receipt is denied
// unless allowOverReceipt is set; warehouses occasionally book surplus
// stock from generous suppliers.
func Reconcile(orderID uuid.UUID, lines []PurchaseOrderLine, deliveries []DeliveryLine, allowOverReceipt bool) (*ReconcileResult, error) {
	if len(deliveries) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "delivery must contain at least one line")
	}

	byID := make(map[uuid.UUID]*PurchaseOrderLine, len(lines))
	for i := range lines {
		byID[lines[i].ID] = &lines[i]
	}

	seen := make(map[uuid.UUID]bool, len(deliveries))
	for _, d := range deliveries {
		if seen[d.LineID] {
			return nil, shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				fmt.Sprintf("line %s appears more than once in the delivery", d.LineID),
				map[string]any{"line_id": d.LineID.String()},
			)
		}
		seen[d.LineID] = true

		if _, ok := byID[d.LineID]; !ok {
			return nil, shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				fmt.Sprintf("line %s does not belong to this order", d.LineID),
				map[string]any{"line_id": d.LineID.String()},
			)
		}

		if !d.Quantity.IsPositive() {
			return nil, shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				fmt.Sprintf("delivered quantity for line %s must be positive", d.LineID),
				map[string]any{"line_id": d.LineID.String(), "quantity": d.Quantity.String()},
			)
		}

		line := byID[d.LineID]
		projected := line.ReceivedQty.Add(d.Quantity)
		if projected.GreaterThan(line.OrderedQty) && !allowOverReceipt {
			return nil, shared.NewDomainErrorWithDetails(
				shared.ErrCodeOverReceipt,
				fmt.Sprintf("delivery would exceed ordered quantity on line %s", d.LineID),
				map[string]any{
					"line_id":      d.LineID.String(),
					"ordered_qty":  line.OrderedQty.String(),
					"received_qty": line.ReceivedQty.String(),
					"delivered":    d.Quantity.String(),
				},
			)
		}
	}

	result := &ReconcileResult{
		Adjustments: make([]LineAdjustment, 0, len(deliveries)),
		Intents:     make([]InventoryAdjustmentIntent, 0, len(deliveries)),
	}

	projected := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for i := range lines {
		projected[lines[i].ID] = lines[i].ReceivedQty
	}

	for _, d := range deliveries {
		line := byID[d.LineID]
		newReceived := line.ReceivedQty.Add(d.Quantity)
		projected[d.LineID] = newReceived

		remaining := line.OrderedQty.Sub(newReceived)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		result.Adjustments = append(result.Adjustments, LineAdjustment{
			LineID:       d.LineID,
			VariantID:    line.VariantID,
			Previous:     line.ReceivedQty,
			Delivered:    d.Quantity,
			NewReceived:  newReceived,
			Remaining:    remaining,
			OverReceived: newReceived.GreaterThan(line.OrderedQty),
		})
		result.Intents = append(result.Intents, InventoryAdjustmentIntent{
			OrderID:   orderID,
			LineID:    d.LineID,
			VariantID: line.VariantID,
			Quantity:  d.Quantity,
		})
	}

	result.Complete = true
	for i := range lines {
		if projected[lines[i].ID].LessThan(lines[i].OrderedQty) {
			result.Complete = false
			break
		}
	}

	return result, nil
}

package purchasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderLine is one ordered product variant within a purchase order.
// UnitPrice stays nil while the price is still being negotiated; every line
// must be priced before the order can be invoiced.
type PurchaseOrderLine struct {
	shared.BaseEntity
	OrderID     uuid.UUID        `json:"order_id"`
	VariantID   uuid.UUID        `json:"variant_id"`
	OrderedQty  decimal.Decimal  `json:"ordered_qty"`
	ReceivedQty decimal.Decimal  `json:"received_qty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// RemainingQuantity returns how much is still outstanding on this line
func (l *PurchaseOrderLine) RemainingQuantity() decimal.Decimal {
	remaining := l.OrderedQty.Sub(l.ReceivedQty)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true when the line is completely delivered
func (l *PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQty.GreaterThanOrEqual(l.OrderedQty)
}

// IsPriced returns true when a unit price has been agreed for this line
func (l *PurchaseOrderLine) IsPriced() bool {
	return l.UnitPrice != nil
}

// Amount returns OrderedQty x UnitPrice, or zero while unpriced
func (l *PurchaseOrderLine) Amount() decimal.Decimal {
	if l.UnitPrice == nil {
		return decimal.Zero
	}
	return l.OrderedQty.Mul(*l.UnitPrice)
}

// LineInput is the payload for creating or adding an order line
type LineInput struct {
	VariantID  uuid.UUID
	OrderedQty decimal.Decimal
	UnitPrice  *decimal.Decimal
}

// PurchaseOrder is the aggregate root of the procurement process. All
// lifecycle changes go through its methods; each consults the state
// machine and leaves the aggregate untouched on denial.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber         string              `json:"po_number"`
	SupplierID       uuid.UUID           `json:"supplier_id"`
	Status           Status              `json:"status"`
	Lines            []PurchaseOrderLine `json:"lines"`
	ExpectedDate     *time.Time          `json:"expected_date,omitempty"`
	InvoiceReference string              `json:"invoice_reference,omitempty"`
	RejectReason     string              `json:"reject_reason,omitempty"`
	SentAt           *time.Time          `json:"sent_at,omitempty"`
	ConfirmedAt      *time.Time          `json:"confirmed_at,omitempty"`
	RejectedAt       *time.Time          `json:"rejected_at,omitempty"`
	ReceivedAt       *time.Time          `json:"received_at,omitempty"`
	InvoicedAt       *time.Time          `json:"invoiced_at,omitempty"`
	ClosedAt         *time.Time          `json:"closed_at,omitempty"`
}

// NewPurchaseOrder creates a draft purchase order with at least one line
func NewPurchaseOrder(poNumber string, supplierID uuid.UUID, lines []LineInput, expectedDate *time.Time) (*PurchaseOrder, error) {
	if strings.TrimSpace(poNumber) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "purchase order number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "supplier is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "purchase order must have at least one line")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		SupplierID:        supplierID,
		Status:            StatusDraft,
		Lines:             make([]PurchaseOrderLine, 0, len(lines)),
		ExpectedDate:      expectedDate,
	}

	for _, input := range lines {
		if _, err := order.AddLine(input); err != nil {
			return nil, err
		}
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))
	return order, nil
}

// AddLine adds a line to a draft order. Each variant may appear only once;
// quantities are consolidated on a single line instead.
func (o *PurchaseOrder) AddLine(input LineInput) (*PurchaseOrderLine, error) {
	if err := o.ensureDraft("lines can only be added while the order is draft"); err != nil {
		return nil, err
	}
	if input.VariantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "line variant is required")
	}
	if !input.OrderedQty.IsPositive() {
		return nil, shared.NewDomainErrorWithDetails(
			shared.ErrCodeValidation,
			"ordered quantity must be positive",
			map[string]any{"variant_id": input.VariantID.String(), "ordered_qty": input.OrderedQty.String()},
		)
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "unit price cannot be negative")
	}
	for i := range o.Lines {
		if o.Lines[i].VariantID == input.VariantID {
			return nil, shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				fmt.Sprintf("variant %s is already on this order", input.VariantID),
				map[string]any{"variant_id": input.VariantID.String()},
			)
		}
	}

	line := PurchaseOrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		VariantID:   input.VariantID,
		OrderedQty:  input.OrderedQty,
		ReceivedQty: decimal.Zero,
		UnitPrice:   input.UnitPrice,
	}
	o.Lines = append(o.Lines, line)
	o.Touch()
	return &o.Lines[len(o.Lines)-1], nil
}

// UpdateLineQty changes the ordered quantity of a draft line
func (o *PurchaseOrder) UpdateLineQty(lineID uuid.UUID, qty decimal.Decimal) error {
	if err := o.ensureDraft("lines can only be changed while the order is draft"); err != nil {
		return err
	}
	if !qty.IsPositive() {
		return shared.NewDomainError(shared.ErrCodeValidation, "ordered quantity must be positive")
	}
	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}
	line.OrderedQty = qty
	line.Touch()
	o.Touch()
	return nil
}

// PriceLine sets or replaces the unit price of a draft line
func (o *PurchaseOrder) PriceLine(lineID uuid.UUID, price decimal.Decimal) error {
	if err := o.ensureDraft("lines can only be priced while the order is draft"); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError(shared.ErrCodeValidation, "unit price cannot be negative")
	}
	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}
	line.UnitPrice = &price
	line.Touch()
	o.Touch()
	return nil
}

// RemoveLine removes a draft line. The last line cannot be removed: an
// order without lines has nothing to send.
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if err := o.ensureDraft("lines can only be removed while the order is draft"); err != nil {
		return err
	}
	if len(o.Lines) == 1 {
		return shared.NewDomainError(shared.ErrCodeValidation, "purchase order must keep at least one line")
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainErrorWithDetails(
		shared.ErrCodeValidation,
		fmt.Sprintf("line %s does not belong to this order", lineID),
		map[string]any{"line_id": lineID.String()},
	)
}

// Send transmits the draft order to the supplier
func (o *PurchaseOrder) Send() error {
	decision := Decide(o.Status, OperationSend)
	if !decision.Allowed {
		return NewInvalidTransitionError(o.Status, OperationSend)
	}
	now := time.Now()
	o.Status = decision.Target
	o.SentAt = &now
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderSentEvent(o))
	return nil
}

// Confirm records the supplier's acceptance of a sent order
func (o *PurchaseOrder) Confirm() error {
	decision := Decide(o.Status, OperationConfirm)
	if !decision.Allowed {
		return NewInvalidTransitionError(o.Status, OperationConfirm)
	}
	now := time.Now()
	o.Status = decision.Target
	o.ConfirmedAt = &now
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))
	return nil
}

// Reject records the supplier's refusal of a sent order. A reason is
// mandatory; the buyer needs it to renegotiate or source elsewhere.
func (o *PurchaseOrder) Reject(reason string) error {
	decision := Decide(o.Status, OperationReject)
	if !decision.Allowed {
		return NewInvalidTransitionError(o.Status, OperationReject)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError(shared.ErrCodeValidation, "rejection reason is required")
	}
	now := time.Now()
	o.Status = decision.Target
	o.RejectReason = reason
	o.RejectedAt = &now
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderRejectedEvent(o, reason))
	return nil
}

// Receive reconciles a delivery batch against the order lines. A delivery
// that completes every line transitions the order to received; a partial
// delivery updates the quantities and leaves the status unchanged.
func (o *PurchaseOrder) Receive(deliveries []DeliveryLine, allowOverReceipt bool) (*ReconcileResult, error) {
	decision := Decide(o.Status, OperationReceive)
	if !decision.Allowed {
		return nil, NewInvalidTransitionError(o.Status, OperationReceive)
	}

	result, err := Reconcile(o.ID, o.Lines, deliveries, allowOverReceipt)
	if err != nil {
		return nil, err
	}

	for _, adj := range result.Adjustments {
		line, err := o.findLine(adj.LineID)
		if err != nil {
			return nil, err
		}
		line.ReceivedQty = adj.NewReceived
		line.Touch()
	}

	if result.Complete {
		now := time.Now()
		o.Status = decision.Target
		o.ReceivedAt = &now
	}
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderDeliveryRecordedEvent(o, result))
	return result, nil
}

// Invoice records the supplier invoice against a fully received order.
// Every line must be priced by now so the payable amount is final.
func (o *PurchaseOrder) Invoice(reference string) error {
	decision := Decide(o.Status, OperationInvoice)
	if !decision.Allowed {
		return NewInvalidTransitionError(o.Status, OperationInvoice)
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return shared.NewDomainError(shared.ErrCodeValidation, "invoice reference is required")
	}
	for i := range o.Lines {
		if !o.Lines[i].IsPriced() {
			return shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				"all lines must be priced before invoicing",
				map[string]any{"line_id": o.Lines[i].ID.String(), "variant_id": o.Lines[i].VariantID.String()},
			)
		}
	}
	now := time.Now()
	o.Status = decision.Target
	o.InvoiceReference = reference
	o.InvoicedAt = &now
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderInvoicedEvent(o, reference))
	return nil
}

// Close archives an invoiced order. Outstanding quantity blocks closing;
// by construction an invoiced order is fully received, but the check
// guards against inconsistent loads.
func (o *PurchaseOrder) Close() error {
	decision := Decide(o.Status, OperationClose)
	if !decision.Allowed {
		return NewInvalidTransitionError(o.Status, OperationClose)
	}
	for i := range o.Lines {
		if !o.Lines[i].IsFullyReceived() {
			return NewInvalidTransitionError(o.Status, OperationClose).
				WithDetail("line_id", o.Lines[i].ID.String())
		}
	}
	now := time.Now()
	o.Status = decision.Target
	o.ClosedAt = &now
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderClosedEvent(o))
	return nil
}

// AllowedOperations returns the lifecycle actions valid right now
func (o *PurchaseOrder) AllowedOperations() []Operation {
	return AllowedOperations(o.Status)
}

// IsDraft returns true while the order is still editable
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == StatusDraft
}

// IsTerminal returns true when the order reached a final state
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// TotalAmount sums OrderedQty x UnitPrice over the priced lines
func (o *PurchaseOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].Amount())
	}
	return total
}

// ReceiveProgress returns the received share of the total ordered
// quantity as a percentage
func (o *PurchaseOrder) ReceiveProgress() decimal.Decimal {
	ordered := decimal.Zero
	received := decimal.Zero
	for i := range o.Lines {
		ordered = ordered.Add(o.Lines[i].OrderedQty)
		capped := o.Lines[i].ReceivedQty
		if capped.GreaterThan(o.Lines[i].OrderedQty) {
			capped = o.Lines[i].OrderedQty
		}
		received = received.Add(capped)
	}
	if ordered.IsZero() {
		return decimal.Zero
	}
	return received.Div(ordered).Mul(decimal.NewFromInt(100)).Round(2)
}

// IsFullyReceived returns true when every line is completely delivered
func (o *PurchaseOrder) IsFullyReceived() bool {
	for i := range o.Lines {
		if !o.Lines[i].IsFullyReceived() {
			return false
		}
	}
	return true
}

func (o *PurchaseOrder) ensureDraft(message string) error {
	if o.Status != StatusDraft {
		return shared.NewDomainErrorWithDetails(
			shared.ErrCodeValidation,
			message,
			map[string]any{"status": o.Status.String()},
		)
	}
	return nil
}

func (o *PurchaseOrder) findLine(lineID uuid.UUID) (*PurchaseOrderLine, error) {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i], nil
		}
	}
	return nil, shared.NewDomainErrorWithDetails(
		shared.ErrCodeValidation,
		fmt.Sprintf("line %s does not belong to this order", lineID),
		map[string]any{"line_id": lineID.String()},
	)
}

package purchasing

import (
	"context"
	"fmt"

	domain "github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/ferretek/procurement/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// PurchaseOrderService drives the purchase order lifecycle. Every mutation
// takes the caller's expected version and fails fast on a mismatch; the
// repository re-checks the version inside the transaction.
type PurchaseOrderService struct {
	repo      domain.PurchaseOrderRepository
	auditRepo domain.AuditLogRepository
	suppliers SupplierDirectory
	variants  VariantCatalog
	inventory InventoryPublisher
	events    EventPublisher
	metrics   *telemetry.ProcurementMetrics
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	repo domain.PurchaseOrderRepository,
	auditRepo domain.AuditLogRepository,
	suppliers SupplierDirectory,
	variants VariantCatalog,
	inventory InventoryPublisher,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		repo:      repo,
		auditRepo: auditRepo,
		suppliers: suppliers,
		variants:  variants,
		inventory: inventory,
	}
}

// SetMetrics enables business metrics recording
func (s *PurchaseOrderService) SetMetrics(metrics *telemetry.ProcurementMetrics) {
	s.metrics = metrics
}

// SetEventPublisher enables relaying of domain events after commits
func (s *PurchaseOrderService) SetEventPublisher(events EventPublisher) {
	s.events = events
}

// publishEvents drains the aggregate's collected events and relays them.
// Events are drained even without a publisher so a long-lived instance
// never accumulates them.
func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *domain.PurchaseOrder) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	s.events.Publish(ctx, events)
}

// Create validates the collaborator references, generates the order number
// and persists a new draft together with its creation audit entry.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest, actor string) (*PurchaseOrderResponse, error) {
	if s.suppliers != nil {
		exists, err := s.suppliers.Exists(ctx, req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("failed to check supplier: %w", err)
		}
		if !exists {
			return nil, shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				"supplier does not exist",
				map[string]any{"supplier_id": req.SupplierID.String()},
			)
		}
	}
	if s.variants != nil {
		for _, line := range req.Lines {
			exists, err := s.variants.Exists(ctx, line.VariantID)
			if err != nil {
				return nil, fmt.Errorf("failed to check variant: %w", err)
			}
			if !exists {
				return nil, shared.NewDomainErrorWithDetails(
					shared.ErrCodeValidation,
					"variant does not exist",
					map[string]any{"variant_id": line.VariantID.String()},
				)
			}
		}
	}

	poNumber, err := s.repo.GeneratePONumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	lines := make([]domain.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.LineInput{
			VariantID:  line.VariantID,
			OrderedQty: line.OrderedQty,
			UnitPrice:  line.UnitPrice,
		})
	}

	order, err := domain.NewPurchaseOrder(poNumber, req.SupplierID, lines, req.ExpectedDate)
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewAuditEntry(order.ID, "", domain.StatusDraft, domain.OperationCreate, actor, map[string]any{
		"po_number":  order.PONumber,
		"line_count": len(order.Lines),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, order, entry); err != nil {
		return nil, fmt.Errorf("failed to save purchase order: %w", err)
	}

	if s.metrics != nil {
		amount, _ := order.TotalAmount().Float64()
		s.metrics.RecordOrderCreated(ctx, amount)
	}
	s.publishEvents(ctx, order)

	return ToPurchaseOrderResponse(order), nil
}

// GetByID retrieves a purchase order
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order), nil
}

// List retrieves purchase orders with pagination and filtering
func (s *PurchaseOrderService) List(ctx context.Context, req ListPurchaseOrdersRequest) ([]*PurchaseOrderResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := shared.DefaultFilter()
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.Order != "" {
		filter.Order = req.Order
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainErrorWithDetails(
				shared.ErrCodeValidation,
				"unknown status filter",
				map[string]any{"status": req.Status},
			)
		}
		filter = filter.WithFilter("status", req.Status)
	}
	if req.Supplier != nil {
		filter = filter.WithFilter("supplier_id", *req.Supplier)
	}

	orders, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	responses := make([]*PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

// History returns the audit timeline of an order, oldest first. The order
// must exist; an unknown id is a not-found, not an empty list.
func (s *PurchaseOrderService) History(ctx context.Context, id uuid.UUID) ([]HistoryEntryResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.auditRepo.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit history: %w", err)
	}
	responses := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToHistoryEntryResponse(&entries[i]))
	}
	return responses, nil
}

// StatusSummary returns per-status order counts
func (s *PurchaseOrderService) StatusSummary(ctx context.Context) (*StatusSummaryResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	summary := &StatusSummaryResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		summary.ByStatus[status.String()] = count
		summary.Total += count
	}
	return summary, nil
}

// Send transmits a draft order to the supplier
func (s *PurchaseOrderService) Send(ctx context.Context, id uuid.UUID, expectedVersion int, actor string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, id, expectedVersion, actor, domain.OperationSend,
		func(order *domain.PurchaseOrder) (map[string]any, error) {
			return nil, order.Send()
		})
}

// Confirm records the supplier's acceptance
func (s *PurchaseOrderService) Confirm(ctx context.Context, id uuid.UUID, expectedVersion int, actor string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, id, expectedVersion, actor, domain.OperationConfirm,
		func(order *domain.PurchaseOrder) (map[string]any, error) {
			return nil, order.Confirm()
		})
}

// Reject records the supplier's refusal with the mandatory reason
func (s *PurchaseOrderService) Reject(ctx context.Context, id uuid.UUID, expectedVersion int, reason, actor string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, id, expectedVersion, actor, domain.OperationReject,
		func(order *domain.PurchaseOrder) (map[string]any, error) {
			if err := order.Reject(reason); err != nil {
				return nil, err
			}
			return map[string]any{"reason": order.RejectReason}, nil
		})
}

// Invoice records the supplier invoice reference
func (s *PurchaseOrderService) Invoice(ctx context.Context, id uuid.UUID, expectedVersion int, reference, actor string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, id, expectedVersion, actor, domain.OperationInvoice,
		func(order *domain.PurchaseOrder) (map[string]any, error) {
			if err := order.Invoice(reference); err != nil {
				return nil, err
			}
			amount, _ := order.TotalAmount().Float64()
			return map[string]any{
				"invoice_reference": order.InvoiceReference,
				"total_amount":      amount,
			}, nil
		})
}

// Close archives an invoiced order
func (s *PurchaseOrderService) Close(ctx context.Context, id uuid.UUID, expectedVersion int, actor string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, id, expectedVersion, actor, domain.OperationClose,
		func(order *domain.PurchaseOrder) (map[string]any, error) {
			return nil, order.Close()
		})
}

// Receive reconciles a delivery batch. A completing delivery transitions
// the order to received; a partial one updates quantities only. Either way
// the change is committed under optimistic locking with an audit entry,
// and the resulting inventory intents are published fire-and-forget.
func (s *PurchaseOrderService) Receive(ctx context.Context, id uuid.UUID, expectedVersion int, req ReceiveRequest, actor string) (*ReceiveResponse, error) {
	order, err := s.loadForUpdate(ctx, id, expectedVersion)
	if err != nil {
		return nil, err
	}
	fromStatus := order.Status

	deliveries := make([]domain.DeliveryLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		deliveries = append(deliveries, domain.DeliveryLine{
			LineID:   line.LineID,
			Quantity: line.Quantity,
		})
	}

	result, err := order.Receive(deliveries, req.AllowOverReceipt)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"completed":          result.Complete,
		"allow_over_receipt": req.AllowOverReceipt,
		"adjustments":        auditAdjustments(result),
	}
	entry, err := domain.NewAuditEntry(order.ID, fromStatus, order.Status, domain.OperationReceive.String(), actor, payload)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithVersion(ctx, order, expectedVersion, entry); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordTransition(ctx, domain.OperationReceive.String(), fromStatus.String(), order.Status.String())
		for _, adj := range result.Adjustments {
			delivered, _ := adj.Delivered.Float64()
			s.metrics.RecordReceivedQuantity(ctx, delivered)
			if adj.OverReceived {
				s.metrics.RecordOverReceipt(ctx)
			}
		}
	}

	if s.inventory != nil && len(result.Intents) > 0 {
		s.inventory.PublishAdjustments(ctx, result.Intents)
	}
	s.publishEvents(ctx, order)

	return ToReceiveResponse(order, result), nil
}

// transition runs one lifecycle operation end to end: load, version
// fast-fail, domain mutation, audit entry, optimistic save.
func (s *PurchaseOrderService) transition(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int,
	actor string,
	op domain.Operation,
	apply func(*domain.PurchaseOrder) (map[string]any, error),
) (*PurchaseOrderResponse, error) {
	order, err := s.loadForUpdate(ctx, id, expectedVersion)
	if err != nil {
		return nil, err
	}
	fromStatus := order.Status

	payload, err := apply(order)
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewAuditEntry(order.ID, fromStatus, order.Status, op.String(), actor, payload)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithVersion(ctx, order, expectedVersion, entry); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordTransition(ctx, op.String(), fromStatus.String(), order.Status.String())
	}
	s.publishEvents(ctx, order)

	return ToPurchaseOrderResponse(order), nil
}

func (s *PurchaseOrderService) loadForUpdate(ctx context.Context, id uuid.UUID, expectedVersion int) (*domain.PurchaseOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.GetVersion() != expectedVersion {
		return nil, shared.NewDomainErrorWithDetails(
			shared.ErrCodeConcurrencyConflict,
			"purchase order was modified by another request",
			map[string]any{
				"expected_version": expectedVersion,
				"actual_version":   order.GetVersion(),
			},
		)
	}
	return order, nil
}

func auditAdjustments(result *domain.ReconcileResult) []map[string]any {
	adjustments := make([]map[string]any, 0, len(result.Adjustments))
	for _, adj := range result.Adjustments {
		adjustments = append(adjustments, map[string]any{
			"line_id":       adj.LineID.String(),
			"variant_id":    adj.VariantID.String(),
			"delivered":     adj.Delivered.String(),
			"new_received":  adj.NewReceived.String(),
			"remaining":     adj.Remaining.String(),
			"over_received": adj.OverReceived,
		})
	}
	return adjustments
}

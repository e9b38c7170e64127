package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys for procurement metrics
const (
	AttrOperation  = attribute.Key("operation")
	AttrFromStatus = attribute.Key("from_status")
	AttrToStatus   = attribute.Key("to_status")
)

// ProcurementMetrics aggregates the business metrics of the purchase
// order lifecycle
type ProcurementMetrics struct {
	ordersCreated    metric.Int64Counter
	orderAmount      metric.Float64Histogram
	transitions      metric.Int64Counter
	receivedQuantity metric.Float64Counter
	overReceipts     metric.Int64Counter
}

// NewProcurementMetrics creates the procurement metric instruments
func NewProcurementMetrics(provider *MeterProvider) (*ProcurementMetrics, error) {
	ordersCreated, err := provider.Counter(
		"procurement_orders_created_total",
		"Total number of purchase orders created",
	)
	if err != nil {
		return nil, err
	}

	orderAmount, err := provider.Histogram(
		"procurement_order_amount",
		"Total amount of created purchase orders",
		"EUR",
	)
	if err != nil {
		return nil, err
	}

	transitions, err := provider.Counter(
		"procurement_order_transitions_total",
		"Total number of committed purchase order lifecycle changes",
	)
	if err != nil {
		return nil, err
	}

	receivedQuantity, err := provider.FloatCounter(
		"procurement_received_quantity_total",
		"Total quantity received across all deliveries",
		"{unit}",
	)
	if err != nil {
		return nil, err
	}

	overReceipts, err := provider.Counter(
		"procurement_over_receipts_total",
		"Total number of lines received above the ordered quantity",
	)
	if err != nil {
		return nil, err
	}

	return &ProcurementMetrics{
		ordersCreated:    ordersCreated,
		orderAmount:      orderAmount,
		transitions:      transitions,
		receivedQuantity: receivedQuantity,
		overReceipts:     overReceipts,
	}, nil
}

// RecordOrderCreated records a created order and its total amount
func (m *ProcurementMetrics) RecordOrderCreated(ctx context.Context, amount float64) {
	m.ordersCreated.Add(ctx, 1)
	if amount > 0 {
		m.orderAmount.Record(ctx, amount)
	}
}

// RecordTransition records a committed lifecycle change. Partial
// deliveries show up with from_status == to_status.
func (m *ProcurementMetrics) RecordTransition(ctx context.Context, operation, fromStatus, toStatus string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		AttrOperation.String(operation),
		AttrFromStatus.String(fromStatus),
		AttrToStatus.String(toStatus),
	))
}

// RecordReceivedQuantity records a delivered line quantity
func (m *ProcurementMetrics) RecordReceivedQuantity(ctx context.Context, quantity float64) {
	m.receivedQuantity.Add(ctx, quantity)
}

// RecordOverReceipt records a line received above the ordered quantity
func (m *ProcurementMetrics) RecordOverReceipt(ctx context.Context) {
	m.overReceipts.Add(ctx, 1)
}

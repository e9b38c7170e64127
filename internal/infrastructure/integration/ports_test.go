package integration

import (
	"context"
	"testing"

	domain "github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPermissiveDirectory_Exists(t *testing.T) {
	suppliers := NewSupplierDirectory(zap.NewNop())
	variants := NewVariantCatalog(nil)

	ok, err := suppliers.Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = variants.Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogInventoryPublisher_PublishAdjustments(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	publisher := NewLogInventoryPublisher(zap.New(core))

	intents := []domain.InventoryAdjustmentIntent{
		{OrderID: uuid.New(), LineID: uuid.New(), VariantID: uuid.New(), Quantity: decimal.NewFromInt(5)},
		{OrderID: uuid.New(), LineID: uuid.New(), VariantID: uuid.New(), Quantity: decimal.NewFromInt(3)},
	}
	publisher.PublishAdjustments(context.Background(), intents)

	entries := logs.FilterMessage("inventory adjustment intent").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "5", entries[0].ContextMap()["quantity"])
}

func TestLogEventPublisher_Publish(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	publisher := NewLogEventPublisher(zap.New(core))

	order := &domain.PurchaseOrder{}
	order.ID = uuid.New()
	order.PONumber = "PO-2026-00007"
	events := []shared.DomainEvent{
		domain.NewPurchaseOrderSentEvent(order),
		domain.NewPurchaseOrderConfirmedEvent(order),
	}
	publisher.Publish(context.Background(), events)

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "purchasing.purchase_order.sent", entries[0].ContextMap()["event_type"])
	assert.Equal(t, order.ID.String(), entries[0].ContextMap()["aggregate_id"])
}

func TestLogEventPublisher_NilLogger(t *testing.T) {
	publisher := NewLogEventPublisher(nil)
	// Must not panic
	publisher.Publish(context.Background(), []shared.DomainEvent{
		domain.NewPurchaseOrderClosedEvent(&domain.PurchaseOrder{}),
	})
}

func TestLogInventoryPublisher_NilLogger(t *testing.T) {
	publisher := NewLogInventoryPublisher(nil)
	// Must not panic
	publisher.PublishAdjustments(context.Background(), []domain.InventoryAdjustmentIntent{
		{OrderID: uuid.New(), LineID: uuid.New(), VariantID: uuid.New(), Quantity: decimal.NewFromInt(1)},
	})
}

package purchasing

import (
	"errors"
	"testing"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLine(ordered, received int64) PurchaseOrderLine {
	return PurchaseOrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		VariantID:   uuid.New(),
		OrderedQty:  decimal.NewFromInt(ordered),
		ReceivedQty: decimal.NewFromInt(received),
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	return domainErr.Code
}

func TestReconcile_PartialDelivery(t *testing.T) {
	orderID := uuid.New()
	lines := []PurchaseOrderLine{makeLine(10, 0), makeLine(5, 0)}

	result, err := Reconcile(orderID, lines, []DeliveryLine{
		{LineID: lines[0].ID, Quantity: decimal.NewFromInt(4)},
	}, false)
	require.NoError(t, err)

	assert.False(t, result.Complete)
	require.Len(t, result.Adjustments, 1)
	adj := result.Adjustments[0]
	assert.Equal(t, lines[0].ID, adj.LineID)
	assert.True(t, adj.Previous.IsZero())
	assert.True(t, adj.Delivered.Equal(decimal.NewFromInt(4)))
	assert.True(t, adj.NewReceived.Equal(decimal.NewFromInt(4)))
	assert.True(t, adj.Remaining.Equal(decimal.NewFromInt(6)))
	assert.False(t, adj.OverReceived)

	require.Len(t, result.Intents, 1)
	assert.Equal(t, orderID, result.Intents[0].OrderID)
	assert.Equal(t, lines[0].VariantID, result.Intents[0].VariantID)
	assert.True(t, result.Intents[0].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestReconcile_CompletingDelivery(t *testing.T) {
	orderID := uuid.New()
	lines := []PurchaseOrderLine{makeLine(10, 6), makeLine(5, 5)}

	result, err := Reconcile(orderID, lines, []DeliveryLine{
		{LineID: lines[0].ID, Quantity: decimal.NewFromInt(4)},
	}, false)
	require.NoError(t, err)

	assert.True(t, result.Complete)
	assert.True(t, result.Adjustments[0].Remaining.IsZero())
}

func TestReconcile_MultiLineBatch(t *testing.T) {
	orderID := uuid.New()
	lines := []PurchaseOrderLine{makeLine(10, 0), makeLine(5, 0), makeLine(2, 0)}

	result, err := Reconcile(orderID, lines, []DeliveryLine{
		{LineID: lines[0].ID, Quantity: decimal.NewFromInt(10)},
		{LineID: lines[1].ID, Quantity: decimal.NewFromInt(5)},
	}, false)
	require.NoError(t, err)

	// third line untouched, so the order is not complete
	assert.False(t, result.Complete)
	assert.Len(t, result.Adjustments, 2)
	assert.Len(t, result.Intents, 2)
}

func TestReconcile_ValidationDenials(t *testing.T) {
	orderID := uuid.New()
	lines := []PurchaseOrderLine{makeLine(10, 0)}
	stranger := uuid.New()

	tests := []struct {
		name       string
		deliveries []DeliveryLine
		wantCode   string
	}{
		{
			name:       "empty batch",
			deliveries: nil,
			wantCode:   shared.ErrCodeValidation,
		},
		{
			name: "unknown line",
			deliveries: []DeliveryLine{
				{LineID: stranger, Quantity: decimal.NewFromInt(1)},
			},
			wantCode: shared.ErrCodeValidation,
		},
		{
			name: "duplicate line",
			deliveries: []DeliveryLine{
				{LineID: lines[0].ID, Quantity: decimal.NewFromInt(1)},
				{LineID: lines[0].ID, Quantity: decimal.NewFromInt(2)},
			},
			wantCode: shared.ErrCodeValidation,
		},
		{
			name: "zero quantity",
			deliveries: []DeliveryLine{
				{LineID: lines[0].ID, Quantity: decimal.Zero},
			},
			wantCode: shared.ErrCodeValidation,
		},
		{
			name: "negative quantity",
			deliveries: []DeliveryLine{
				{LineID: lines[0].ID, Quantity: decimal.NewFromInt(-3)},
			},
			wantCode: shared.ErrCodeValidation,
		},
		{
			name: "over receipt without flag",
			deliveries: []DeliveryLine{
				{LineID: lines[0].ID, Quantity: decimal.NewFromInt(11)},
			},
			wantCode: shared.ErrCodeOverReceipt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Reconcile(orderID, lines, tt.deliveries, false)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantCode, domainCode(t, err))
		})
	}
}

// A single invalid line must reject the whole batch, even when the other
// lines are fine.
func TestReconcile_AllOrNothing(t *testing.T) {
	orderID := uuid.New()
	lines := []PurchaseOrderLine{makeLine(10, 0), makeLine(5, 0)}

	_, err := Reconcile(orderID, lines, []DeliveryLine{
		{LineID: lines[0].ID, Quantity: decimal.NewFromInt(3)},
		{LineID: lines[1].ID, Quantity: decimal.NewFromInt(6)}, // over
	}, false)
	require.Error(t, err)
	assert.Equal(t, shared.ErrCodeOverReceipt, domainCode(t, err))

	// source lines untouched
	assert.True(t, lines[0].ReceivedQty.IsZero())
	assert.True(t, lines[1].ReceivedQty.IsZero())
}

func TestReconcile_OverReceiptAllowed(t *testing.T) {
	orderID := uuid.New()
	lines := []PurchaseOrderLine{makeLine(10, 8)}

	result, err := Reconcile(orderID, lines, []DeliveryLine{
		{LineID: lines[0].ID, Quantity: decimal.NewFromInt(5)},
	}, true)
	require.NoError(t, err)

	adj := result.Adjustments[0]
	assert.True(t, adj.NewReceived.Equal(decimal.NewFromInt(13)))
	assert.True(t, adj.Remaining.IsZero())
	assert.True(t, adj.OverReceived)
	assert.True(t, result.Complete)
}

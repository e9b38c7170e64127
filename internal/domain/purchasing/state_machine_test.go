package purchasing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusDraft, StatusSent, StatusConfirmed, StatusRejected,
	StatusReceived, StatusInvoiced, StatusClosed,
}

var allOperations = []Operation{
	OperationSend, OperationConfirm, OperationReject,
	OperationReceive, OperationInvoice, OperationClose,
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range allStatuses {
		t.Run(s.String(), func(t *testing.T) {
			assert.True(t, s.IsValid())
		})
	}
	assert.False(t, Status("SHIPPED").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusDraft, false},
		{StatusSent, false},
		{StatusConfirmed, false},
		{StatusRejected, true},
		{StatusReceived, false},
		{StatusInvoiced, false},
		{StatusClosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

// TestDecide_Matrix pins down the full status x operation matrix.
func TestDecide_Matrix(t *testing.T) {
	allowed := map[Status]map[Operation]Status{
		StatusDraft: {
			OperationSend: StatusSent,
		},
		StatusSent: {
			OperationConfirm: StatusConfirmed,
			OperationReject:  StatusRejected,
			OperationReceive: StatusReceived,
		},
		StatusConfirmed: {
			OperationReceive: StatusReceived,
		},
		StatusReceived: {
			OperationInvoice: StatusInvoiced,
		},
		StatusInvoiced: {
			OperationClose: StatusClosed,
		},
		StatusRejected: {},
		StatusClosed:   {},
	}

	for _, status := range allStatuses {
		for _, op := range allOperations {
			t.Run(status.String()+"_"+op.String(), func(t *testing.T) {
				decision := Decide(status, op)
				if target, ok := allowed[status][op]; ok {
					assert.True(t, decision.Allowed)
					assert.Equal(t, target, decision.Target)
					assert.Empty(t, decision.Reason)
				} else {
					assert.False(t, decision.Allowed)
					assert.NotEmpty(t, decision.Reason)
				}
			})
		}
	}
}

func TestDecide_UnknownOperation(t *testing.T) {
	decision := Decide(StatusDraft, Operation("archive"))
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)
}

func TestAllowedOperations(t *testing.T) {
	tests := []struct {
		status Status
		ops    []Operation
	}{
		{StatusDraft, []Operation{OperationSend}},
		{StatusSent, []Operation{OperationConfirm, OperationReject, OperationReceive}},
		{StatusConfirmed, []Operation{OperationReceive}},
		{StatusReceived, []Operation{OperationInvoice}},
		{StatusInvoiced, []Operation{OperationClose}},
		{StatusRejected, []Operation{}},
		{StatusClosed, []Operation{}},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.ops, AllowedOperations(tt.status))
		})
	}
}

func TestNewInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError(StatusClosed, OperationSend)
	require.NotNil(t, err)
	assert.Equal(t, "INVALID_TRANSITION", err.Code)
	assert.Equal(t, "closed", err.Details["from_status"])
	assert.Equal(t, "send", err.Details["operation"])
}

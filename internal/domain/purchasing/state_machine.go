package purchasing

import (
	"fmt"

	"github.com/ferretek/procurement/internal/domain/shared"
)

// Status represents the lifecycle state of a purchase order
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusReceived  Status = "received"
	StatusInvoiced  Status = "invoiced"
	StatusClosed    Status = "closed"
)

// IsValid checks if the status is a valid purchase order status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusConfirmed, StatusRejected,
		StatusReceived, StatusInvoiced, StatusClosed:
		return true
	}
	return false
}

// IsTerminal returns true when no further operations are possible
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusClosed
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Operation is a lifecycle action requested against a purchase order
type Operation string

const (
	OperationSend    Operation = "send"
	OperationConfirm Operation = "confirm"
	OperationReject  Operation = "reject"
	OperationReceive Operation = "receive"
	OperationInvoice Operation = "invoice"
	OperationClose   Operation = "close"
)

// String returns the string representation
func (o Operation) String() string {
	return string(o)
}

// transitions maps each operation to its valid source statuses and the
// resulting target. Receiving is allowed straight from sent: suppliers
// that skip the confirmation step still deliver.
var transitions = map[Operation]map[Status]Status{
	OperationSend: {
		StatusDraft: StatusSent,
	},
	OperationConfirm: {
		StatusSent: StatusConfirmed,
	},
	OperationReject: {
		StatusSent: StatusRejected,
	},
	OperationReceive: {
		StatusSent:      StatusReceived,
		StatusConfirmed: StatusReceived,
	},
	OperationInvoice: {
		StatusReceived: StatusInvoiced,
	},
	OperationClose: {
		StatusInvoiced: StatusClosed,
	},
}

// operationOrder fixes a stable order for AllowedOperations output
var operationOrder = []Operation{
	OperationSend,
	OperationConfirm,
	OperationReject,
	OperationReceive,
	OperationInvoice,
	OperationClose,
}

// TransitionDecision is the outcome of consulting the state machine
type TransitionDecision struct {
	Allowed bool
	Target  Status
	Reason  string
}

// Decide checks whether the operation is valid from the current status.
// It is pure: no storage access, no mutation.
func Decide(current Status, op Operation) TransitionDecision {
	targets, ok := transitions[op]
	if !ok {
		return TransitionDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown operation %q", op),
		}
	}
	target, ok := targets[current]
	if !ok {
		return TransitionDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("operation %q is not allowed from status %q", op, current),
		}
	}
	return TransitionDecision{Allowed: true, Target: target}
}

// AllowedOperations returns the operations valid from the given status,
// in a stable order. The admin console renders these as action buttons.
func AllowedOperations(current Status) []Operation {
	ops := make([]Operation, 0, 2)
	for _, op := range operationOrder {
		if _, ok := transitions[op][current]; ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// NewInvalidTransitionError builds the denial returned for any operation
// the state machine rejects
func NewInvalidTransitionError(current Status, op Operation) *shared.DomainError {
	return shared.NewDomainErrorWithDetails(
		shared.ErrCodeInvalidTransition,
		fmt.Sprintf("operation %q is not allowed from status %q", op, current),
		map[string]any{
			"from_status": current.String(),
			"operation":   op.String(),
		},
	)
}

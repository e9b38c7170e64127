package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	PONumber         string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	Status           purchasing.Status        `gorm:"type:varchar(20);not null;default:'draft';index"`
	Lines            []PurchaseOrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
	ExpectedDate     *time.Time
	InvoiceReference string `gorm:"type:varchar(100)"`
	RejectReason     string `gorm:"type:varchar(500)"`
	SentAt           *time.Time
	ConfirmedAt      *time.Time `gorm:"index"`
	RejectedAt       *time.Time
	ReceivedAt       *time.Time
	InvoicedAt       *time.Time
	ClosedAt         *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	order := &purchasing.PurchaseOrder{
		PONumber:         m.PONumber,
		SupplierID:       m.SupplierID,
		Status:           m.Status,
		ExpectedDate:     m.ExpectedDate,
		InvoiceReference: m.InvoiceReference,
		RejectReason:     m.RejectReason,
		SentAt:           m.SentAt,
		ConfirmedAt:      m.ConfirmedAt,
		RejectedAt:       m.RejectedAt,
		ReceivedAt:       m.ReceivedAt,
		InvoicedAt:       m.InvoicedAt,
		ClosedAt:         m.ClosedAt,
		Lines:            make([]purchasing.PurchaseOrderLine, len(m.Lines)),
	}
	order.BaseEntity = m.BaseModel.ToDomain()
	order.Version = m.Version
	for i, line := range m.Lines {
		order.Lines[i] = *line.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *purchasing.PurchaseOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.PONumber = o.PONumber
	m.SupplierID = o.SupplierID
	m.Status = o.Status
	m.ExpectedDate = o.ExpectedDate
	m.InvoiceReference = o.InvoiceReference
	m.RejectReason = o.RejectReason
	m.SentAt = o.SentAt
	m.ConfirmedAt = o.ConfirmedAt
	m.RejectedAt = o.RejectedAt
	m.ReceivedAt = o.ReceivedAt
	m.InvoicedAt = o.InvoicedAt
	m.ClosedAt = o.ClosedAt
	m.Lines = make([]PurchaseOrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = *PurchaseOrderLineModelFromDomain(&line)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderLineModel is the persistence model for the PurchaseOrderLine entity.
type PurchaseOrderLineModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	VariantID   uuid.UUID        `gorm:"type:uuid;not null"`
	OrderedQty  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ReceivedQty decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain PurchaseOrderLine entity.
func (m *PurchaseOrderLineModel) ToDomain() *purchasing.PurchaseOrderLine {
	line := &purchasing.PurchaseOrderLine{
		OrderID:     m.OrderID,
		VariantID:   m.VariantID,
		OrderedQty:  m.OrderedQty,
		ReceivedQty: m.ReceivedQty,
		UnitPrice:   m.UnitPrice,
	}
	line.ID = m.ID
	line.CreatedAt = m.CreatedAt
	line.UpdatedAt = m.UpdatedAt
	return line
}

// FromDomain populates the persistence model from a domain PurchaseOrderLine entity.
func (m *PurchaseOrderLineModel) FromDomain(l *purchasing.PurchaseOrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.VariantID = l.VariantID
	m.OrderedQty = l.OrderedQty
	m.ReceivedQty = l.ReceivedQty
	m.UnitPrice = l.UnitPrice
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// PurchaseOrderLineModelFromDomain creates a new persistence model from a domain PurchaseOrderLine entity.
func PurchaseOrderLineModelFromDomain(l *purchasing.PurchaseOrderLine) *PurchaseOrderLineModel {
	m := &PurchaseOrderLineModel{}
	m.FromDomain(l)
	return m
}

// AuditEntryModel is the persistence model for the AuditEntry entity.
// Rows are insert-only; there is no update or delete path.
type AuditEntryModel struct {
	BaseModel
	OrderID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	FromStatus purchasing.Status `gorm:"type:varchar(20);not null;default:''"`
	ToStatus   purchasing.Status `gorm:"type:varchar(20);not null"`
	Operation  string            `gorm:"type:varchar(20);not null"`
	Actor      string            `gorm:"type:varchar(100);not null"`
	Payload    []byte            `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain AuditEntry entity.
// A payload that no longer decodes is a corrupted row and must not pass
// silently as an entry without payload.
func (m *AuditEntryModel) ToDomain() (*purchasing.AuditEntry, error) {
	entry := &purchasing.AuditEntry{
		OrderID:    m.OrderID,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		Operation:  m.Operation,
		Actor:      m.Actor,
	}
	entry.BaseEntity = m.BaseModel.ToDomain()
	if len(m.Payload) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode payload of audit entry %s: %w", m.ID, err)
		}
		entry.Payload = payload
	}
	return entry, nil
}

// FromDomain populates the persistence model from a domain AuditEntry entity.
func (m *AuditEntryModel) FromDomain(e *purchasing.AuditEntry) error {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.OrderID = e.OrderID
	m.FromStatus = e.FromStatus
	m.ToStatus = e.ToStatus
	m.Operation = e.Operation
	m.Actor = e.Actor
	m.Payload = nil
	if e.Payload != nil {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return err
		}
		m.Payload = payload
	}
	return nil
}

// AuditEntryModelFromDomain creates a new persistence model from a domain AuditEntry entity.
func AuditEntryModelFromDomain(e *purchasing.AuditEntry) (*AuditEntryModel, error) {
	m := &AuditEntryModel{}
	if err := m.FromDomain(e); err != nil {
		return nil, err
	}
	return m, nil
}

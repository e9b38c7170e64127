package persistence

import (
	"context"

	"github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/ferretek/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements AuditLogRepository using GORM. It only
// reads the timeline; entries are written by GormPurchaseOrderRepository
// inside the order transaction.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// History returns all entries for an order, oldest first
func (r *GormAuditLogRepository) History(ctx context.Context, orderID uuid.UUID) ([]purchasing.AuditEntry, error) {
	var entryModels []models.AuditEntryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]purchasing.AuditEntry, len(entryModels))
	for i := range entryModels {
		entry, err := entryModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries[i] = *entry
	}
	return entries, nil
}

// Ensure GormAuditLogRepository implements AuditLogRepository
var _ purchasing.AuditLogRepository = (*GormAuditLogRepository)(nil)

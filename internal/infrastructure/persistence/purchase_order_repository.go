package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ferretek/procurement/internal/domain/purchasing"
	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/ferretek/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM.
// Mutations write the order and its audit entry in one transaction, so a
// committed order change always has its timeline record and vice versa.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel

	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]purchasing.PurchaseOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns per-status order counts
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context) (map[purchasing.Status]int64, error) {
	type statusCount struct {
		Status purchasing.Status
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[purchasing.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Create persists a new draft order together with its creation audit entry
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchasing.PurchaseOrder, entry *purchasing.AuditEntry) error {
	model := models.PurchaseOrderModelFromDomain(order)
	entryModel, err := models.AuditEntryModelFromDomain(entry)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return tx.Create(entryModel).Error
	})
}

// SaveWithVersion persists a mutated order with optimistic locking. The
// row update is guarded by a compare-and-swap on the version column; zero
// affected rows means another writer got there first. The audit entry is
// appended in the same transaction.
func (r *GormPurchaseOrderRepository) SaveWithVersion(ctx context.Context, order *purchasing.PurchaseOrder, expectedVersion int, entry *purchasing.AuditEntry) error {
	entryModel, err := models.AuditEntryModelFromDomain(entry)
	if err != nil {
		return err
	}

	newVersion := expectedVersion + 1
	now := time.Now()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PurchaseOrderModel{}).
			Where("id = ? AND version = ?", order.GetID(), expectedVersion).
			Updates(map[string]interface{}{
				"status":            order.Status,
				"expected_date":     order.ExpectedDate,
				"invoice_reference": order.InvoiceReference,
				"reject_reason":     order.RejectReason,
				"sent_at":           order.SentAt,
				"confirmed_at":      order.ConfirmedAt,
				"rejected_at":       order.RejectedAt,
				"received_at":       order.ReceivedAt,
				"invoiced_at":       order.InvoicedAt,
				"closed_at":         order.ClosedAt,
				"version":           newVersion,
				"updated_at":        now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either the row is gone or the version moved on
			var count int64
			if err := tx.Model(&models.PurchaseOrderModel{}).
				Where("id = ?", order.GetID()).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}

		// Replace the line set: delete removed lines, upsert the rest
		currentLineIDs := make([]uuid.UUID, len(order.Lines))
		for i, line := range order.Lines {
			currentLineIDs[i] = line.ID
		}
		if len(currentLineIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.GetID(), currentLineIDs).
				Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.GetID()).
				Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
				return err
			}
		}
		for i := range order.Lines {
			order.Lines[i].OrderID = order.GetID()
			lineModel := models.PurchaseOrderLineModelFromDomain(&order.Lines[i])
			if err := tx.Save(lineModel).Error; err != nil {
				return err
			}
		}

		return tx.Create(entryModel).Error
	})
	if err != nil {
		return err
	}

	order.SetVersion(newVersion)
	return nil
}

// ExistsByPONumber checks whether an order number is already taken
func (r *GormPurchaseOrderRepository) ExistsByPONumber(ctx context.Context, poNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("po_number = ?", poNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePONumber generates a unique order number.
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	// Get the highest order number for this year
	var lastOrder models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("po_number LIKE ?", prefix+"%").
		Order("po_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.PONumber != "" {
		parts := strings.Split(lastOrder.PONumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	poNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness, incrementing on collision
	exists, err := r.ExistsByPONumber(ctx, poNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			poNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByPONumber(ctx, poNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return poNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	// Ordering goes through a whitelist to keep user input out of SQL
	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.Order)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("po_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]purchasing.Status); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

package handler

import (
	"time"

	procurement "github.com/ferretek/procurement/internal/application/purchasing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderHandler handles purchase order-related API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurement.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurement.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers the purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/summary", h.Summary)
		orders.GET("/:id", h.Get)
		orders.GET("/:id/history", h.History)
		orders.POST("/:id/send", h.Send)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/reject", h.Reject)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/invoice", h.Invoice)
		orders.POST("/:id/close", h.Close)
	}
}

// CreateLineInput represents one line in the create order request
// @Description Purchase order line for creation
type CreateLineInput struct {
	VariantID  string           `json:"variant_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	OrderedQty decimal.Decimal  `json:"ordered_qty" binding:"required" example:"10"`
	UnitPrice  *decimal.Decimal `json:"unit_price" example:"12.50"`
}

// CreatePurchaseOrderRequest represents a request to create a new purchase order
// @Description Request body for creating a new purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   string            `json:"supplier_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExpectedDate *time.Time        `json:"expected_date" example:"2026-09-30T00:00:00Z"`
	Lines        []CreateLineInput `json:"lines" binding:"required,min=1,dive"`
}

// RejectPurchaseOrderRequest represents a request to reject an order
// @Description Request body for rejecting a purchase order
type RejectPurchaseOrderRequest struct {
	Reason string `json:"reason" example:"cannot deliver before Q4"`
}

// ReceiveLineInput represents one delivered line in a receive request
// @Description Delivered line in a receiving batch
type ReceiveLineInput struct {
	LineID   string          `json:"line_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440020"`
	Quantity decimal.Decimal `json:"quantity" example:"5"`
}

// ReceivePurchaseOrderRequest represents a request to record a delivery
// @Description Request body for recording a delivery against a purchase order
type ReceivePurchaseOrderRequest struct {
	Lines            []ReceiveLineInput `json:"lines" binding:"omitempty,dive"`
	AllowOverReceipt bool               `json:"allow_over_receipt" example:"false"`
}

// InvoicePurchaseOrderRequest represents a request to record the supplier invoice
// @Description Request body for invoicing a purchase order
type InvoicePurchaseOrderRequest struct {
	Reference string `json:"reference" example:"INV-4711"`
}

// ListPurchaseOrdersQuery represents list query parameters
type ListPurchaseOrdersQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	OrderBy    string `form:"order_by"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a new purchase order
// @Description  Create a draft purchase order with at least one line
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        X-Actor header string false "Acting user for the audit trail"
// @Param        request body CreatePurchaseOrderRequest true "Purchase order creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	lines := make([]procurement.CreateLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		variantID, err := uuid.Parse(line.VariantID)
		if err != nil {
			h.BadRequest(c, "Invalid variant ID: "+line.VariantID)
			return
		}
		lines = append(lines, procurement.CreateLineInput{
			VariantID:  variantID,
			OrderedQty: line.OrderedQty,
			UnitPrice:  line.UnitPrice,
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), procurement.CreatePurchaseOrderRequest{
		SupplierID:   supplierID,
		ExpectedDate: req.ExpectedDate,
		Lines:        lines,
	}, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Description  List purchase orders with pagination and filters
// @Tags         purchase-orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by status"
// @Param        supplier_id query string false "Filter by supplier"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var query ListPurchaseOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	req := procurement.ListPurchaseOrdersRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
		Status:   query.Status,
		OrderBy:  query.OrderBy,
		Order:    query.Order,
	}
	if query.SupplierID != "" {
		supplierID, err := uuid.Parse(query.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID")
			return
		}
		req.Supplier = &supplierID
	}

	orders, total, err := h.orderService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Summary godoc
// @ID           purchaseOrderSummary
// @Summary      Purchase order status summary
// @Description  Per-status order counts
// @Tags         purchase-orders
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /purchase-orders/summary [get]
func (h *PurchaseOrderHandler) Summary(c *gin.Context) {
	summary, err := h.orderService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Get godoc
// @ID           getPurchaseOrder
// @Summary      Get a purchase order
// @Description  Get a purchase order with its lines and allowed operations
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// History godoc
// @ID           purchaseOrderHistory
// @Summary      Purchase order audit timeline
// @Description  All recorded lifecycle changes for an order, oldest first
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /purchase-orders/{id}/history [get]
func (h *PurchaseOrderHandler) History(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	entries, err := h.orderService.History(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// Send godoc
// @ID           sendPurchaseOrder
// @Summary      Send a purchase order to the supplier
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        If-Match header string true "Expected order version"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	id, version, ok := h.parseIDAndVersion(c)
	if !ok {
		return
	}

	order, err := h.orderService.Send(c.Request.Context(), id, version, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm godoc
// @ID           confirmPurchaseOrder
// @Summary      Record the supplier's confirmation
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        If-Match header string true "Expected order version"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, version, ok := h.parseIDAndVersion(c)
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), id, version, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Reject godoc
// @ID           rejectPurchaseOrder
// @Summary      Record the supplier's rejection
// @Description  Reject a sent order; the reason is mandatory
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        If-Match header string true "Expected order version"
// @Param        request body RejectPurchaseOrderRequest true "Rejection reason"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(c *gin.Context) {
	id, version, ok := h.parseIDAndVersion(c)
	if !ok {
		return
	}

	var req RejectPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Reject(c.Request.Context(), id, version, req.Reason, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Receive godoc
// @ID           receivePurchaseOrder
// @Summary      Record a delivery
// @Description  Reconcile a delivery batch against the order. A batch that
// @Description  completes every line moves the order to received; a partial
// @Description  delivery updates quantities and leaves the status unchanged.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        If-Match header string true "Expected order version"
// @Param        request body ReceivePurchaseOrderRequest true "Delivered lines"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, version, ok := h.parseIDAndVersion(c)
	if !ok {
		return
	}

	var req ReceivePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	lines := make([]procurement.ReceiveLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lineID, err := uuid.Parse(line.LineID)
		if err != nil {
			h.BadRequest(c, "Invalid line ID: "+line.LineID)
			return
		}
		lines = append(lines, procurement.ReceiveLineInput{
			LineID:   lineID,
			Quantity: line.Quantity,
		})
	}

	result, err := h.orderService.Receive(c.Request.Context(), id, version, procurement.ReceiveRequest{
		Lines:            lines,
		AllowOverReceipt: req.AllowOverReceipt,
	}, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Invoice godoc
// @ID           invoicePurchaseOrder
// @Summary      Record the supplier invoice
// @Description  Invoice a fully received order; every line must be priced
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        If-Match header string true "Expected order version"
// @Param        request body InvoicePurchaseOrderRequest true "Invoice reference"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/invoice [post]
func (h *PurchaseOrderHandler) Invoice(c *gin.Context) {
	id, version, ok := h.parseIDAndVersion(c)
	if !ok {
		return
	}

	var req InvoicePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Invoice(c.Request.Context(), id, version, req.Reference, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Close godoc
// @ID           closePurchaseOrder
// @Summary      Close an invoiced purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        If-Match header string true "Expected order version"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/close [post]
func (h *PurchaseOrderHandler) Close(c *gin.Context) {
	id, version, ok := h.parseIDAndVersion(c)
	if !ok {
		return
	}

	order, err := h.orderService.Close(c.Request.Context(), id, version, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// parseID parses the order ID path parameter
func (h *PurchaseOrderHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseIDAndVersion parses the order ID and the If-Match version header
func (h *PurchaseOrderHandler) parseIDAndVersion(c *gin.Context) (uuid.UUID, int, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return uuid.Nil, 0, false
	}
	version, ok := getExpectedVersion(c)
	if !ok {
		h.MissingIfMatch(c)
		return uuid.Nil, 0, false
	}
	return id, version, true
}

// Ensure PurchaseOrderHandler can be plugged into the router
var _ interface{ RegisterRoutes(rg *gin.RouterGroup) } = (*PurchaseOrderHandler)(nil)

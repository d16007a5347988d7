package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade CommerceFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade CommerceFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	items := make([]model.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), actor.UserID, model.CreateOrderInput{
		Items:           items,
		ShippingAddress: toModelAddress(req.ShippingAddress),
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	actor := CurrentActor(c)
	order, err := h.facade.Order(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// MyOrders handles GET /api/orders/myorders.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	h.list(c, h.facade.BuyerOrders)
}

// SellerOrders handles GET /api/orders/seller.
func (h *OrderHandler) SellerOrders(c *gin.Context) {
	h.list(c, h.facade.SellerOrders)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	h.list(c, h.facade.AllOrders)
}

type listFunc func(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error)

func (h *OrderHandler) list(c *gin.Context, fetch listFunc) {
	actor := CurrentActor(c)
	page := pageFromQuery(c)

	orders, count, err := fetch(c.Request.Context(), actor, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderListResponse(orders, page, count))
}

// Cancel handles PUT /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor := CurrentActor(c)
	order, err := h.facade.CancelOrder(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Deliver handles PUT /api/orders/:id/deliver.
func (h *OrderHandler) Deliver(c *gin.Context) {
	actor := CurrentActor(c)
	order, err := h.facade.DeliverOrder(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), actor, c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Pay handles PUT /api/orders/:id/pay.
func (h *OrderHandler) Pay(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.ConfirmPayment(c.Request.Context(), actor, c.Param("id"), req.IntentID, req.PaymentID, req.Signature)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toModelAddress(in dto.ShippingAddress) model.ShippingAddress {
	return model.ShippingAddress{
		Name:       in.Name,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.LineItemResponse, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		items = append(items, dto.LineItemResponse{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:            order.ID,
		BuyerID:       order.BuyerID,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		PaymentRef:    order.PaymentRef,
		Items:         items,
		Amounts: dto.AmountsResponse{
			ItemsTotal:    order.Amounts.ItemsTotal,
			ShippingTotal: order.Amounts.ShippingTotal,
			TaxTotal:      order.Amounts.TaxTotal,
			GrandTotal:    order.Amounts.GrandTotal,
		},
		ShippingAddress: dto.ShippingAddress{
			Name:       order.ShippingAddress.Name,
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			State:      order.ShippingAddress.State,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
			Phone:      order.ShippingAddress.Phone,
		},
		CreatedAt:   order.CreatedAt,
		PaidAt:      order.PaidAt,
		DeliveredAt: order.DeliveredAt,
		CancelledAt: order.CancelledAt,
	}
}

func toOrderListResponse(orders []model.Order, page repository.Page, count int) dto.OrderListResponse {
	resp := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Page:   page.Number,
		Pages:  (count + page.Size - 1) / page.Size,
		Count:  count,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}
	return resp
}

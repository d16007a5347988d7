package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/server/http/dto"
)

// CartHandler manages the saved cart of the authenticated buyer.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	actor := CurrentActor(c)

	items, err := h.facade.Cart(c.Request.Context(), actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.CartResponse{Items: make([]dto.CartItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	c.JSON(http.StatusOK, resp)
}

// Replace handles PUT /api/cart.
func (h *CartHandler) Replace(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	if err := h.facade.ReplaceCart(c.Request.Context(), actor.UserID, items); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

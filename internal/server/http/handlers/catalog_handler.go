package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/server/http/dto"
)

// CatalogHandler manages product endpoints.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Create handles POST /api/products.
func (h *CatalogHandler) Create(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), actor, req.Name, req.Price, req.Stock)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// Get handles GET /api/products/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// List handles GET /api/products.
func (h *CatalogHandler) List(c *gin.Context) {
	page := pageFromQuery(c)

	products, count, err := h.facade.Products(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.ProductListResponse{
		Products: make([]dto.ProductResponse, 0, len(products)),
		Page:     page.Number,
		Pages:    (count + page.Size - 1) / page.Size,
		Count:    count,
	}
	for _, p := range products {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

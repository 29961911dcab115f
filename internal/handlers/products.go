package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lojista/backoffice-service/internal/database"
)

// ListProductsResponse represents the response for listing products
type ListProductsResponse struct {
	Products []database.Product `json:"products" jsonschema:"required"`
	Total    int                `json:"total" jsonschema:"required"`
}

// ListProducts returns the full product catalog
// @Summary List products
// @Description Returns every product discovered during ingestion, with cost prices where set
// @Tags products
// @Produce json
// @Success 200 {object} ListProductsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/products [get]
func ListProducts(c *gin.Context) {
	products, err := database.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}
	c.JSON(http.StatusOK, ListProductsResponse{Products: products, Total: len(products)})
}

// UpdateProductCostRequest represents the request for setting a cost price
type UpdateProductCostRequest struct {
	CostPriceCents *int64 `json:"costPriceCents"`
}

// UpdateProductCost sets or clears a product's cost price
// @Summary Update product cost price
// @Description Sets the production cost of a product in cents; null clears it
// @Tags products
// @Accept json
// @Produce json
// @Param productId path int true "Product ID"
// @Param request body UpdateProductCostRequest true "Cost price"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/products/{productId}/cost [patch]
func UpdateProductCost(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req UpdateProductCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CostPriceCents != nil && *req.CostPriceCents < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "costPriceCents must not be negative"})
		return
	}

	if err := database.SetProductCostPrice(c.Request.Context(), productID, req.CostPriceCents); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cost price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"productId": productID, "costPriceCents": req.CostPriceCents})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
)

// StockConfigRequest represents the request for setting the stock-start date
type StockConfigRequest struct {
	StartDate string `json:"startDate" binding:"required" jsonschema:"required"` // YYYY-MM-DD
}

// SetStockConfig sets the date the opening-stock snapshot was taken
// @Summary Set stock start date
// @Description Sets the opening-stock snapshot date; only sales on or after it deplete stock
// @Tags stock
// @Accept json
// @Produce json
// @Param request body StockConfigRequest true "Stock configuration"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/stock/config [put]
func SetStockConfig(c *gin.Context) {
	var req StockConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate := dateparse.DateOnlyNoon(req.StartDate)
	if startDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}

	if err := database.SetStockStartDate(c.Request.Context(), *startDate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set stock start date"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"startDate": req.StartDate})
}

// OpeningQtyRequest represents the request for recording an opening quantity
type OpeningQtyRequest struct {
	OpeningQty int `json:"openingQty" binding:"min=0" jsonschema:"required,minimum=0"`
}

// SetProductOpeningQty records the counted opening stock of a product
// @Summary Set product opening quantity
// @Description Records how many units of a product were on hand at the stock-start date
// @Tags stock
// @Accept json
// @Produce json
// @Param productId path int true "Product ID"
// @Param request body OpeningQtyRequest true "Opening quantity"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/stock/products/{productId} [put]
func SetProductOpeningQty(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req OpeningQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.SetProductOpeningQty(c.Request.Context(), productID, req.OpeningQty); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set opening quantity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"productId": productID, "openingQty": req.OpeningQty})
}

// SetGroupOpeningQty records the counted opening stock of a product group
// @Summary Set group opening quantity
// @Description Records how many units a product group had on hand at the stock-start date
// @Tags stock
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param request body OpeningQtyRequest true "Opening quantity"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/stock/groups/{groupId} [put]
func SetGroupOpeningQty(c *gin.Context) {
	groupID := c.Param("groupId")

	var req OpeningQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.SetGroupOpeningQty(c.Request.Context(), groupID, req.OpeningQty); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set opening quantity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groupId": groupID, "openingQty": req.OpeningQty})
}

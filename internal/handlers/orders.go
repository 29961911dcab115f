package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/types"
)

// ListOrdersResponse represents the response for listing orders
type ListOrdersResponse struct {
	Orders []database.Order `json:"orders" jsonschema:"required"`
	Total  int              `json:"total" jsonschema:"required"`
}

// ListOrders returns ingested orders with optional channel and date filters
// @Summary List orders
// @Description Returns ingested orders, newest first
// @Tags orders
// @Produce json
// @Param channel query string false "Filter by channel" Enums(site, shopee, meli, all)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Param limit query int false "Number of items to return" default(200) maximum(1000)
// @Success 200 {object} ListOrdersResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/orders [get]
func ListOrders(c *gin.Context) {
	channel := types.ChannelAll
	if slug := c.Query("channel"); slug != "" && slug != string(types.ChannelAll) {
		if !types.IsValidChannel(slug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid channel: %s", slug)})
			return
		}
		channel = types.ChannelID(slug)
	}

	from, ok := parseDateBound(c, c.Query("from"))
	if !ok {
		return
	}
	to, ok := parseDateBound(c, c.Query("to"))
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	orders, err := database.ListOrders(c.Request.Context(), channel, from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, ListOrdersResponse{Orders: orders, Total: len(orders)})
}

// PurgeChannelOrders deletes every order of a channel so its exports can be
// re-imported from scratch
// @Summary Purge channel orders
// @Description Deletes all orders and line items of a channel
// @Tags orders
// @Produce json
// @Param channel path string true "Sales channel" Enums(site, shopee, meli)
// @Success 200 {object} map[string]interface{} "Purged"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/orders/{channel} [delete]
func PurgeChannelOrders(c *gin.Context) {
	slug := c.Param("channel")
	if !types.IsValidChannel(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid channel: %s", slug)})
		return
	}
	channel := types.ChannelID(slug)

	started := time.Now()
	deleted, err := database.PurgeChannel(c.Request.Context(), channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge channel"})
		return
	}

	log.Info().
		Str("channel", slug).
		Int64("deleted", deleted).
		Dur("took", time.Since(started)).
		Msg("Purged channel orders")

	c.JSON(http.StatusOK, gin.H{"channel": slug, "deleted": deleted})
}

// parseDateBound parses an optional YYYY-MM-DD range bound at the start of
// the day in UTC; "from" is inclusive and "to" exclusive against ordered_at.
// On bad input it writes the 400 response and returns ok=false.
func parseDateBound(c *gin.Context, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}

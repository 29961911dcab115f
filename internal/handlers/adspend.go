package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/types"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// AdSpendRequest represents the request for recording monthly ad spend
type AdSpendRequest struct {
	Month       string `json:"month" binding:"required" jsonschema:"required"` // YYYY-MM
	Channel     string `json:"channel" binding:"required" jsonschema:"required,enum=site,enum=shopee,enum=meli"`
	AmountCents int64  `json:"amountCents" binding:"min=0" jsonschema:"required,minimum=0"`
}

// UpsertAdSpend records the advertising spend of a month and channel
// @Summary Record ad spend
// @Description Upserts the advertising spend for one (month, channel) cell
// @Tags finance
// @Accept json
// @Produce json
// @Param request body AdSpendRequest true "Ad spend"
// @Success 200 {object} database.AdSpend
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/ad-spends [put]
func UpsertAdSpend(c *gin.Context) {
	var req AdSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !monthPattern.MatchString(req.Month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}
	if !types.IsValidChannel(req.Channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel"})
		return
	}

	spend := &database.AdSpend{
		Month:       req.Month,
		Channel:     types.ChannelID(req.Channel),
		AmountCents: req.AmountCents,
	}
	if err := database.UpsertAdSpend(c.Request.Context(), spend); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record ad spend"})
		return
	}
	c.JSON(http.StatusOK, spend)
}

// PaymentTypeFeeRequest represents the request for a payment fee rule
type PaymentTypeFeeRequest struct {
	Month       string  `json:"month" binding:"required" jsonschema:"required"` // YYYY-MM
	PaymentType string  `json:"paymentType" binding:"required" jsonschema:"required"`
	Percent     float64 `json:"percent" binding:"min=0,max=100" jsonschema:"required,minimum=0,maximum=100"`
}

// UpsertPaymentTypeFee records the processing fee percent of a storefront
// payment type for a month
// @Summary Record payment type fee
// @Description Upserts the fee percent charged on storefront orders paid with a given payment type in a month
// @Tags finance
// @Accept json
// @Produce json
// @Param request body PaymentTypeFeeRequest true "Fee rule"
// @Success 200 {object} database.PaymentTypeFee
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/payment-fees [put]
func UpsertPaymentTypeFee(c *gin.Context) {
	var req PaymentTypeFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !monthPattern.MatchString(req.Month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	fee := &database.PaymentTypeFee{
		Month:       req.Month,
		Channel:     types.ChannelSite,
		PaymentType: req.PaymentType,
		Percent:     req.Percent,
	}
	if err := database.UpsertPaymentTypeFee(c.Request.Context(), fee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment fee"})
		return
	}
	c.JSON(http.StatusOK, fee)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojista/backoffice-service/config"
	"github.com/lojista/backoffice-service/internal/reports"
	"github.com/lojista/backoffice-service/internal/types"
)

// StockReportResponse represents the inventory depletion ledger
type StockReportResponse struct {
	Rows []reports.LedgerRow `json:"rows" jsonschema:"required"`
}

// GetStockReport returns the current stock ledger
// @Summary Stock ledger
// @Description Returns opening, sold and current quantities per product and group, depleted by valid sales since the stock-start date
// @Tags reports
// @Produce json
// @Success 200 {object} StockReportResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/reports/stock [get]
func GetStockReport(c *gin.Context) {
	input, err := reports.LoadLedgerInput(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stock data"})
		return
	}
	c.JSON(http.StatusOK, StockReportResponse{Rows: reports.ComputeLedger(*input)})
}

// ProjectionReportResponse represents the stock valuation projection
type ProjectionReportResponse struct {
	Rows []reports.ProjectionRow `json:"rows" jsonschema:"required"`
}

// GetProjectionReport returns the stock ledger valued at observed prices
// @Summary Stock projection
// @Description Returns the stock ledger extended with projected revenue and cost of remaining units
// @Tags reports
// @Produce json
// @Success 200 {object} ProjectionReportResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/reports/projection [get]
func GetProjectionReport(c *gin.Context) {
	input, err := reports.LoadLedgerInput(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stock data"})
		return
	}
	c.JSON(http.StatusOK, ProjectionReportResponse{Rows: reports.ComputeProjection(*input)})
}

// GetAdsDashboard returns revenue against ad spend per month and channel
// @Summary Ads dashboard
// @Description Returns ROAS cells per (month, channel) with monthly and per-channel rollups
// @Tags reports
// @Produce json
// @Param from query string false "Start month (YYYY-MM)"
// @Param to query string false "End month (YYYY-MM)"
// @Success 200 {object} reports.AdsDashboard
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/reports/ads [get]
func GetAdsDashboard(c *gin.Context) {
	dashboard, err := reports.LoadAdsDashboard(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ads dashboard"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// SimulationRequest represents the request for a P&L simulation
type SimulationRequest struct {
	Month             string   `json:"month" binding:"required" jsonschema:"required"` // YYYY-MM
	Channel           string   `json:"channel" jsonschema:"enum=site,enum=shopee,enum=meli,enum=all"`
	FixedCostCents    int64    `json:"fixedCostCents" binding:"min=0" jsonschema:"minimum=0"`
	TaxPercent        *float64 `json:"taxPercent"`
	DefaultFeePercent *float64 `json:"defaultFeePercent"`
}

// SimulateProfit runs a monthly P&L simulation
// @Summary Simulate monthly P&L
// @Description Computes revenue, fees, freight, production cost, fixed cost allocation and tax for a month, per channel or across all channels
// @Tags reports
// @Accept json
// @Produce json
// @Param request body SimulationRequest true "Simulation parameters"
// @Success 200 {object} reports.SimulationResult
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/reports/simulation [post]
func SimulateProfit(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := types.ChannelAll
	if req.Channel != "" {
		if req.Channel != string(types.ChannelAll) && !types.IsValidChannel(req.Channel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel"})
			return
		}
		channel = types.ChannelID(req.Channel)
	}

	params := reports.SimulationParams{
		Month:          req.Month,
		Channel:        channel,
		FixedCostCents: req.FixedCostCents,
	}
	if cfg := config.Get(); cfg != nil {
		params.TaxPercent = cfg.Finance.DefaultTaxPercent
		params.DefaultFeePercent = cfg.Finance.DefaultFeePercent
	}
	if req.TaxPercent != nil {
		params.TaxPercent = *req.TaxPercent
	}
	if req.DefaultFeePercent != nil {
		params.DefaultFeePercent = *req.DefaultFeePercent
	}

	result, err := reports.LoadSimulation(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run simulation"})
		return
	}
	c.JSON(http.StatusOK, result)
}

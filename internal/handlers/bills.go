package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
)

// BillRequest represents the request for creating or updating a bill
type BillRequest struct {
	Description   string `json:"description" binding:"required" jsonschema:"required"`
	InvoiceNumber string `json:"invoiceNumber"`
	TotalCents    int64  `json:"totalCents" binding:"min=1" jsonschema:"required,minimum=1"`
	DueDate       string `json:"dueDate"` // YYYY-MM-DD, optional
}

// BillPaymentRequest represents the request for a bill payment
type BillPaymentRequest struct {
	AmountCents int64  `json:"amountCents" binding:"min=1" jsonschema:"required,minimum=1"`
	DueDate     string `json:"dueDate"` // YYYY-MM-DD, optional
	PaidAt      string `json:"paidAt"`  // YYYY-MM-DD, empty while unpaid
	Notes       string `json:"notes"`
}

// ListBillsResponse represents the response for listing bills
type ListBillsResponse struct {
	Bills []database.Bill `json:"bills" jsonschema:"required"`
}

// ListBills returns every bill with its derived payment status
// @Summary List bills
// @Description Returns all bills to pay, newest first
// @Tags bills
// @Produce json
// @Success 200 {object} ListBillsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills [get]
func ListBills(c *gin.Context) {
	bills, err := database.ListBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}
	c.JSON(http.StatusOK, ListBillsResponse{Bills: bills})
}

// GetBill returns one bill with its payments
// @Summary Get bill
// @Description Returns a bill and its payment installments
// @Tags bills
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 200 {object} database.Bill
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills/{billId} [get]
func GetBill(c *gin.Context) {
	bill, err := database.GetBill(c.Request.Context(), c.Param("billId"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bill"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// CreateBill registers a new bill to pay
// @Summary Create bill
// @Description Registers a payable; status starts as pending
// @Tags bills
// @Accept json
// @Produce json
// @Param request body BillRequest true "Bill"
// @Success 201 {object} database.Bill
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills [post]
func CreateBill(c *gin.Context) {
	var req BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, ok := parseOptionalDate(c, req.DueDate)
	if !ok {
		return
	}

	bill, err := database.CreateBill(c.Request.Context(), req.Description, req.InvoiceNumber, req.TotalCents, dueDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// UpdateBill edits a bill; its status is recomputed against recorded payments
// @Summary Update bill
// @Description Updates a bill's fields and recomputes its payment status
// @Tags bills
// @Accept json
// @Produce json
// @Param billId path string true "Bill ID"
// @Param request body BillRequest true "Bill"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills/{billId} [put]
func UpdateBill(c *gin.Context) {
	billID := c.Param("billId")

	var req BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, ok := parseOptionalDate(c, req.DueDate)
	if !ok {
		return
	}

	err := database.UpdateBill(c.Request.Context(), billID, req.Description, req.InvoiceNumber, req.TotalCents, dueDate)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"billId": billID})
}

// DeleteBill removes a bill and its payments
// @Summary Delete bill
// @Description Deletes a bill; its payments cascade
// @Tags bills
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills/{billId} [delete]
func DeleteBill(c *gin.Context) {
	billID := c.Param("billId")

	if err := database.DeleteBill(c.Request.Context(), billID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"billId": billID})
}

// CreateBillPayment records an installment against a bill
// @Summary Create bill payment
// @Description Records an installment; the bill's status is recomputed from the sum of paid installments
// @Tags bills
// @Accept json
// @Produce json
// @Param billId path string true "Bill ID"
// @Param request body BillPaymentRequest true "Payment"
// @Success 201 {object} database.BillPayment
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills/{billId}/payments [post]
func CreateBillPayment(c *gin.Context) {
	billID := c.Param("billId")

	var req BillPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, ok := parseOptionalDate(c, req.DueDate)
	if !ok {
		return
	}
	paidAt, ok := parseOptionalDate(c, req.PaidAt)
	if !ok {
		return
	}

	payment, err := database.CreatePayment(c.Request.Context(), billID, req.AmountCents, dueDate, paidAt, req.Notes)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdateBillPayment edits an installment and recomputes the bill's status
// @Summary Update bill payment
// @Description Updates an installment; marking paidAt empty reverts it to unpaid and the bill's status follows
// @Tags bills
// @Accept json
// @Produce json
// @Param billId path string true "Bill ID"
// @Param paymentId path string true "Payment ID"
// @Param request body BillPaymentRequest true "Payment"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills/{billId}/payments/{paymentId} [put]
func UpdateBillPayment(c *gin.Context) {
	billID := c.Param("billId")
	paymentID := c.Param("paymentId")

	var req BillPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, ok := parseOptionalDate(c, req.DueDate)
	if !ok {
		return
	}
	paidAt, ok := parseOptionalDate(c, req.PaidAt)
	if !ok {
		return
	}

	err := database.UpdatePayment(c.Request.Context(), billID, paymentID, req.AmountCents, dueDate, paidAt, req.Notes)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentId": paymentID})
}

// DeleteBillPayment removes an installment and recomputes the bill's status
// @Summary Delete bill payment
// @Description Deletes an installment; the bill's status is recomputed without it
// @Tags bills
// @Produce json
// @Param billId path string true "Bill ID"
// @Param paymentId path string true "Payment ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/bills/{billId}/payments/{paymentId} [delete]
func DeleteBillPayment(c *gin.Context) {
	billID := c.Param("billId")
	paymentID := c.Param("paymentId")

	if err := database.DeletePayment(c.Request.Context(), billID, paymentID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentId": paymentID})
}

// parseOptionalDate parses an optional YYYY-MM-DD field. The stored value is
// anchored at noon UTC so the calendar date survives rendering in
// negative-offset timezones. On bad input it writes the 400 response and
// returns ok=false.
func parseOptionalDate(c *gin.Context, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t := dateparse.DateOnlyNoon(value)
	if t == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return nil, false
	}
	return t, true
}

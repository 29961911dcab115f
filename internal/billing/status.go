// Package billing holds the derived bill-status rules.
package billing

// Status is the derived payable state of a bill
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// RecomputeStatus derives a bill's status from the sum of its paid
// installments. There is no terminal state: editing or removing a payment can
// move a paid bill back to partial or pending.
func RecomputeStatus(totalCents, paidSumCents int64) Status {
	switch {
	case paidSumCents <= 0:
		return StatusPending
	case paidSumCents >= totalCents:
		return StatusPaid
	default:
		return StatusPartial
	}
}

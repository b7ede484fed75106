package billing

import (
	"github.com/almapaid/backend/core/student"
)

// Summary buckets
const (
	BucketPaid   = "paid"
	BucketUnpaid = "unpaid"
)

// DuePeriod is what a student owes for one billing cycle.
// Total is always Subtotal + Surcharge.
type DuePeriod struct {
	Subtotal  float64 `json:"subtotal"`
	Surcharge float64 `json:"surcharge"`
	Total     float64 `json:"total"`
}

// Summary maps payment-status buckets to student counts, for charting.
type Summary map[string]int

// Invoice pairs a student with their current- and next-cycle dues.
type Invoice struct {
	Student student.Student `json:"student"`
	Current DuePeriod       `json:"current"`
	Next    DuePeriod       `json:"next"`
}

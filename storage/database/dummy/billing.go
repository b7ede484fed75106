package dummydb

import (
	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/payment"
)

// billingRepository aggregates the student and course repositories into the
// read-only view the billing and payment services depend on.
type billingRepository struct {
	*studentRepository
	*courseRepository
}

var (
	_ billing.Repository = (*billingRepository)(nil)
	_ payment.Repository = (*billingRepository)(nil)
)

func NewBillingRepository(db *DB, activeStatus string) *billingRepository {
	return &billingRepository{
		studentRepository: NewStudentRepository(db, activeStatus),
		courseRepository:  NewCourseRepository(db, activeStatus),
	}
}

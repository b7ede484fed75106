package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/student"
)

// NewTestConfig returns a config with fixed billing settings so tests do not
// depend on the environment.
func NewTestConfig() *core.Config {
	cutoff, _ := time.Parse("2006-01-02", "2025-06-10")
	return &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "AlmaPaid",
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Name: "AlmaPaid", Address: "noreply@localhost"},
		Server: core.ServerConfig{
			Port:                      "8000",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Admin: core.AdminConfig{
			Username: "admin",
		},
		Billing: core.BillingConfig{
			Currency:        "ARS",
			SurchargeAmount: 2000,
			SurchargeCutoff: cutoff,
			ActiveStatus:    "activo",
		},
		Checkout: core.CheckoutConfig{
			AccessToken: "TEST-TOKEN",
			BaseURL:     "https://api.mercadopago.com",
			BackBaseURL: "https://almapaid.test",
			Timeout:     time.Second,
		},
	}
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, dni, email string,
	lastPaidAt ...time.Time,
) student.Student {
	t.Helper()

	tstamp := time.Now().UTC()
	stu := student.Student{
		Name:      name,
		DNI:       dni,
		Email:     email,
		Status:    student.StatusActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if len(lastPaidAt) > 0 {
		stu.LastPaidAt = lastPaidAt[0].UTC()
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateCourse(t *testing.T, repo course.Repository, title string, monthlyFee float64) course.Course {
	t.Helper()

	tstamp := time.Now().UTC()
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:      title,
		MonthlyFee: monthlyFee,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func Enroll(t *testing.T, repo course.Repository, stu student.Student, crs course.Course, status ...string) course.Enrollment {
	t.Helper()

	st := student.StatusActive
	if len(status) > 0 {
		st = status[0]
	}
	enr, err := repo.CreateEnrollment(context.Background(), course.Enrollment{
		StudentID: stu.ID,
		CourseID:  crs.ID,
		Status:    st,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return enr
}

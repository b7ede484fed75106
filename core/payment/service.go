package payment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/student"
)

type (
	Repository interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
	}

	Service struct {
		repo    Repository
		billing *billing.Service
		gateway Gateway
		mail    core.EmailService
		logger  core.Logger
		conf    *core.Config
		now     func() time.Time
	}
)

func NewService(repo Repository, billingSvc *billing.Service, gateway Gateway, mailSvc core.EmailService, logger core.Logger, conf *core.Config, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    repo,
		billing: billingSvc,
		gateway: gateway,
		mail:    mailSvc,
		logger:  logger,
		conf:    conf,
		now:     now,
	}
}

// CreatePreference resolves the student, recomputes their current due from
// the store (client-supplied amounts are ignored), registers a checkout
// preference with the gateway and returns the redirect URL.
// It calls the gateway exactly once per invocation.
func (svc *Service) CreatePreference(ctx context.Context, studentID string) (string, error) {
	stu, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return "", err
	}

	due, err := svc.billing.CurrentDue(ctx, stu.ID)
	if err != nil {
		return "", err
	}

	pref := svc.buildPreference(stu, due)

	ctx, cancel := context.WithTimeout(ctx, svc.conf.Checkout.Timeout)
	defer cancel()
	redirectURL, err := svc.gateway.CreatePreference(ctx, pref)
	if err != nil {
		return "", err
	}

	svc.sendPaymentLink(stu, due, redirectURL)
	return redirectURL, nil
}

func (svc *Service) buildPreference(stu student.Student, due billing.DuePeriod) Preference {
	today := svc.now().Format("2006-01-02")
	base := svc.conf.Checkout.BackBaseURL
	return Preference{
		Items: []Item{{
			Title:      fmt.Sprintf("Pago cuota %s - %s", today, stu.Name),
			Quantity:   1,
			CurrencyID: svc.conf.Billing.Currency,
			UnitPrice:  due.Total,
		}},
		ExternalReference: fmt.Sprintf("%s-%s", stu.ID, today),
		BackURLs: BackURLs{
			Success: base + "/payment/success",
			Failure: base + "/payment/failed",
			Pending: base + "/payment/pending",
		},
		AutoReturn: "approved",
	}
}

// sendPaymentLink emails the checkout link to the student, fire and forget.
// Mail failures are the email service's to log; the payer is already being
// redirected and must not be blocked on this.
func (svc *Service) sendPaymentLink(stu student.Student, due billing.DuePeriod, redirectURL string) {
	if stu.Email == "" {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: stu.Name, Address: stu.Email}},
		Subject: "Tu link de pago",
		Body: fmt.Sprintf(
			"Hola %s,\n\nTu cuota de %s %.2f está lista para pagar:\n%s\n",
			stu.Name, svc.conf.Billing.Currency, due.Total, redirectURL,
		),
	}
	svc.mail.SendMessages(msg)
}

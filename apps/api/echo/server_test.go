package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/payment"
	"github.com/almapaid/backend/core/student"
	emailsvc "github.com/almapaid/backend/services/email"
	logsvc "github.com/almapaid/backend/services/logger"
	dummydb "github.com/almapaid/backend/storage/database/dummy"
	testutil "github.com/almapaid/backend/tests"
)

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type fakeGateway struct {
	pref  payment.Preference
	calls int
	url   string
	err   error
}

func (g *fakeGateway) CreatePreference(ctx context.Context, pref payment.Preference) (string, error) {
	g.calls++
	g.pref = pref
	return g.url, g.err
}

func setupApp(t *testing.T, gateway payment.Gateway) (Server, *dummydb.DB, *core.Config) {
	t.Helper()

	conf := testutil.NewTestConfig()
	hash, err := bcrypt.GenerateFromPassword([]byte("pwd"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}
	conf.Admin.PasswordHash = string(hash)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}

	activeStatus := conf.Billing.ActiveStatus
	billRepo := dummydb.NewBillingRepository(db, activeStatus)
	nowFunc := func() time.Time { return testNow }

	logger := logsvc.NewStdLogger(log.New(new(strings.Builder), "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	stuSvc := student.NewService(dummydb.NewStudentRepository(db, activeStatus), nowFunc)
	crsSvc := course.NewService(dummydb.NewCourseRepository(db, activeStatus), nowFunc)
	billSvc := billing.NewService(billRepo, conf.Billing, nowFunc)
	paySvc := payment.NewService(billRepo, billSvc, gateway, mailSvc, logger, conf, nowFunc)

	srv := NewServer(&Options{
		Address:        ":0",
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		StudentSvc:     stuSvc,
		CourseSvc:      crsSvc,
		BillingSvc:     billSvc,
		PaymentSvc:     paySvc,
	})
	return srv, db, conf
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getAdminToken(t *testing.T, conf *core.Config) string {
	t.Helper()

	a := newAuthenticator(conf)
	token, err := a.generateToken(a.getClaims())
	if err != nil {
		t.Fatalf("getAdminToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decodeBody() failed: %v; body = %s", err, rec.Body.String())
	}
	return body
}

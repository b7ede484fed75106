package mercadopago

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/almapaid/backend/core/payment"
	logsvc "github.com/almapaid/backend/services/logger"
	testutil "github.com/almapaid/backend/tests"
)

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *Client {
	t.Helper()

	conf := testutil.NewTestConfig()
	conf.Checkout.BaseURL = srv.URL
	conf.Checkout.Timeout = timeout
	return NewClient(conf, logsvc.NewStdLogger(log.New(new(strings.Builder), "", 0)))
}

func testPreference() payment.Preference {
	return payment.Preference{
		Items: []payment.Item{{
			Title:      "Pago cuota 2025-06-15 - Ana García",
			Quantity:   1,
			CurrencyID: "ARS",
			UnitPrice:  17000,
		}},
		ExternalReference: "abc-2025-06-15",
		BackURLs: payment.BackURLs{
			Success: "https://almapaid.test/payment/success",
			Failure: "https://almapaid.test/payment/failed",
			Pending: "https://almapaid.test/payment/pending",
		},
		AutoReturn: "approved",
	}
}

func TestClient_CreatePreference(t *testing.T) {
	var gotReq *http.Request
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"response":{"init_point":"https://mp.test/redirect"},"sandbox_init_point":"https://sandbox.mp.test/redirect"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)

	url, err := client.CreatePreference(context.Background(), testPreference())
	if err != nil {
		t.Fatalf("CreatePreference() failed: %v", err)
	}
	// init_point wins over sandbox_init_point
	if url != "https://mp.test/redirect" {
		t.Errorf("url = %s; want https://mp.test/redirect", url)
	}

	if gotReq.Method != http.MethodPost {
		t.Errorf("method = %s; want POST", gotReq.Method)
	}
	if gotReq.URL.Path != "/checkout/preferences" {
		t.Errorf("path = %s; want /checkout/preferences", gotReq.URL.Path)
	}
	if auth := gotReq.Header.Get("Authorization"); auth != "Bearer TEST-TOKEN" {
		t.Errorf("Authorization = %q; want Bearer TEST-TOKEN", auth)
	}
	if ct := gotReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	items, ok := gotBody["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("items = %v; want one item", gotBody["items"])
	}
	item := items[0].(map[string]interface{})
	if item["unit_price"] != 17000.0 {
		t.Errorf("unit_price = %v; want 17000", item["unit_price"])
	}
	if gotBody["external_reference"] != "abc-2025-06-15" {
		t.Errorf("external_reference = %v; want abc-2025-06-15", gotBody["external_reference"])
	}
	if gotBody["auto_return"] != "approved" {
		t.Errorf("auto_return = %v; want approved", gotBody["auto_return"])
	}
	if _, ok := gotBody["back_urls"].(map[string]interface{}); !ok {
		t.Errorf("back_urls = %v; want object", gotBody["back_urls"])
	}
}

func TestClient_CreatePreference_sandboxFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sandbox_init_point":"https://sandbox.mp.test/redirect"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)

	url, err := client.CreatePreference(context.Background(), testPreference())
	if err != nil {
		t.Fatalf("CreatePreference() failed: %v", err)
	}
	if url != "https://sandbox.mp.test/redirect" {
		t.Errorf("url = %s; want https://sandbox.mp.test/redirect", url)
	}
}

func TestClient_CreatePreference_gatewayRejection(t *testing.T) {
	rawBody := `{"message":"invalid access token"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(rawBody))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)

	_, err := client.CreatePreference(context.Background(), testPreference())
	gwErr, ok := err.(*payment.GatewayError)
	if !ok {
		t.Fatalf("error = %T (%v); want *payment.GatewayError", err, err)
	}
	if gwErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d; want 400", gwErr.Status)
	}
	if string(gwErr.RawBody) != rawBody {
		t.Errorf("RawBody = %s; want %s", gwErr.RawBody, rawBody)
	}
}

func TestClient_CreatePreference_missingRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"123"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)

	_, err := client.CreatePreference(context.Background(), testPreference())
	if _, ok := err.(*payment.GatewayError); !ok {
		t.Fatalf("error = %T (%v); want *payment.GatewayError", err, err)
	}
}

func TestClient_CreatePreference_timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.CreatePreference(ctx, testPreference()); err != payment.ErrTimeout {
		t.Errorf("error = %v; want %v", err, payment.ErrTimeout)
	}
}

// Package mercadopago implements the Mercado Pago checkout-preference
// client. It covers the single call this system makes: registering a
// preference and extracting the payer redirect URL.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/payment"
)

const preferencesPath = "/checkout/preferences"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     core.Logger
}

var _ payment.Gateway = (*Client)(nil) // interface compliance check

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: conf.Checkout.BaseURL,
		token:   conf.Checkout.AccessToken,
		httpClient: &http.Client{
			Timeout: conf.Checkout.Timeout,
		},
		logger: logger,
	}
}

// preferenceResponse models the fields of the creation response we resolve
// the redirect from. Which one is present depends on sandbox vs live mode;
// the nested init_point wins when both are set.
type preferenceResponse struct {
	Response struct {
		InitPoint string `json:"init_point"`
	} `json:"response"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference registers pref with the gateway and returns the redirect
// URL. Any outcome other than a 201 carrying a redirect field is surfaced as
// a *payment.GatewayError with the raw body preserved; the call is never
// retried here since each attempt creates a remote record.
func (c *Client) CreatePreference(ctx context.Context, pref payment.Preference) (string, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return "", errors.Wrap(err, "marshaling preference")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+preferencesPath, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", payment.ErrTimeout
		}
		return "", errors.Wrap(err, "calling payment gateway")
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading gateway response")
	}

	if resp.StatusCode != http.StatusCreated {
		return "", &payment.GatewayError{Status: resp.StatusCode, RawBody: respBody}
	}

	var data preferenceResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", &payment.GatewayError{Status: resp.StatusCode, RawBody: respBody}
	}

	redirect := data.Response.InitPoint
	if redirect == "" {
		redirect = data.SandboxInitPoint
	}
	if redirect == "" {
		// 201 without a redirect field; do not fabricate a URL
		return "", &payment.GatewayError{Status: resp.StatusCode, RawBody: respBody}
	}
	return redirect, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	type timeout interface{ Timeout() bool }
	var terr timeout
	return errors.As(err, &terr) && terr.Timeout()
}

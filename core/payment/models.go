package payment

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout reports that the gateway call exceeded its deadline.
	ErrTimeout = errors.New("payment gateway timed out")
)

// Item is a single checkout line. Quantity is always 1: a preference covers
// one monthly due.
type Item struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// Preference is the checkout session description submitted to the gateway
// before redirecting the payer. Its JSON form is the wire contract and must
// not change shape.
type Preference struct {
	Items             []Item   `json:"items"`
	ExternalReference string   `json:"external_reference"`
	BackURLs          BackURLs `json:"back_urls"`
	AutoReturn        string   `json:"auto_return"`
}

// Gateway is the remote checkout service. CreatePreference registers pref and
// returns the URL the payer must be redirected to. It creates a record on the
// remote side: callers must issue at most one call per user-initiated pay
// action and never retry automatically.
type Gateway interface {
	CreatePreference(ctx context.Context, pref Preference) (redirectURL string, err error)
}

// GatewayError carries the raw gateway response for diagnostic display when
// preference creation did not yield a redirect URL.
type GatewayError struct {
	Status  int
	RawBody []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error (status %d): %s", e.Status, e.RawBody)
}

package cart

import (
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

// PaymentClient asks the external gateway for a checkout redirect URL.
// The gateway itself is out of scope; we only hand the sale over and pass
// the returned URL back to the storefront.
type PaymentClient struct {
	GatewayURL string
	ApiKey     string
	Timeout    time.Duration
}

func NewPaymentClient(gatewayURL, apiKey string, timeout time.Duration) *PaymentClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PaymentClient{GatewayURL: gatewayURL, ApiKey: apiKey, Timeout: timeout}
}

type paymentRequest struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

type paymentResponse struct {
	CheckoutURL string `json:"checkout_url"`
	Error       string `json:"error"`
}

// CreatePaymentURL requests a hosted checkout URL for the sale. Without a
// configured gateway a local pseudo-URL is returned so development setups
// can complete the flow.
func (p *PaymentClient) CreatePaymentURL(sale *domain.Sale) (string, error) {
	if p.GatewayURL == "" {
		return fmt.Sprintf("/checkout/pending/%d", sale.ID), nil
	}

	var resp paymentResponse
	err := gout.POST(p.GatewayURL).
		SetTimeout(p.Timeout).
		SetHeader(gout.H{"Authorization": "Bearer " + p.ApiKey}).
		SetJSON(paymentRequest{
			Reference: fmt.Sprintf("sale-%d", sale.ID),
			Amount:    sale.Total,
			Currency:  "ARS",
		}).
		BindJSON(&resp).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "payment: gateway request failed")
	}
	if resp.Error != "" {
		return "", errors.Errorf("payment: gateway rejected sale: %s", resp.Error)
	}
	if resp.CheckoutURL == "" {
		return "", errors.New("payment: gateway returned no checkout url")
	}
	return resp.CheckoutURL, nil
}

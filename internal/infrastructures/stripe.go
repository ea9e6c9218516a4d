package infrastructures

import (
	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type StripeClient struct {
	Config *StripeConfig
}

// NewStripeClient configures the global Stripe key and returns the client
// used for top-up checkout sessions and webhook verification.
func NewStripeClient() *StripeClient {
	config := &StripeConfig{
		SecretKey:     Config.STRIPE_SECRET_KEY,
		WebhookSecret: Config.STRIPE_WEBHOOK_SECRET,
		SuccessURL:    Config.TOPUP_SUCCESS_URL,
		CancelURL:     Config.TOPUP_CANCEL_URL,
	}
	stripe.Key = config.SecretKey
	return &StripeClient{Config: config}
}

// CreateTopupCheckoutSession creates a one-off payment checkout session for
// an advisor credit top-up. amountCents is the charge in USD cents; the
// account id rides on the payment intent metadata so the webhook can credit
// the right ledger.
func (c *StripeClient) CreateTopupCheckoutSession(accountID string, amountCents int64) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("MoneyKaki Advisor TopUp"),
						Description: stripe.String("Top up your advisor account with credits"),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.Config.SuccessURL),
		CancelURL:  stripe.String(c.Config.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"account_id": accountID,
			},
		},
	}
	return checkoutsession.New(params)
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
func (c *StripeClient) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.Config.WebhookSecret)
}

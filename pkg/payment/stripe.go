package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
)

type StripeService struct {
	secretKey     string
	webhookSecret string
	frontendURL   string
}

func NewStripeService(secretKey, webhookSecret, frontendURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		frontendURL:   frontendURL,
	}
}

// CreateDepositSession opens a one-off checkout for a wallet deposit. The
// transaction id travels in the metadata so the webhook can find it again.
func (s *StripeService) CreateDepositSession(userEmail string, amount decimal.Decimal, transactionID uint) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		CustomerEmail: &userEmail,
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyVND)),
					UnitAmount: stripe.Int64(amount.IntPart()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Wallet deposit"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.frontendURL + "/wallet/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.frontendURL + "/wallet/cancel"),
	}

	params.AddMetadata("transaction_id", fmt.Sprintf("%d", transactionID))

	return session.New(params)
}

// VerifyWebhook checks the Stripe signature and parses the event payload.
func (s *StripeService) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}

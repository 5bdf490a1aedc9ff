package lib

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

type CheckoutInput struct {
	Description string
	Amount      float64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CreateBookingCheckout opens a checkout session for a booking balance. The
// returned session id is stored on the Payment row; the payment intent id
// arrives later via webhook.
func CreateBookingCheckout(ctx context.Context, in *CheckoutInput) (id string, url string, err error) {
	sc := GetStripeClient()
	unitAmount := int64(math.Round(in.Amount * 100))
	params := stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		Metadata:   in.Metadata,
	}
	session, err := sc.V1CheckoutSessions.Create(ctx, &params)
	if err != nil {
		return "", "", fmt.Errorf("could not create checkout session: %w", err)
	}
	return session.ID, session.URL, nil
}

package main

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"vrms/src/models"
	"vrms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
)

const testWebhookSecret = "whsec_test_secret"

// postStripeEvent signs the payload the way Stripe does and delivers it to
// the webhook route.
func (s *TestSuite) postStripeEvent(router *gin.Engine, payload string) *httptest.ResponseRecorder {
	now := time.Now()
	sig := webhook.ComputeSignature(now, []byte(payload), testWebhookSecret)
	req, err := http.NewRequest("POST", "/api/v1/webhook/stripe", strings.NewReader(payload))
	assert.Nil(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func checkoutSessionEvent(eventType, sessionId, paymentIntentId string) string {
	return fmt.Sprintf(
		`{"id":"evt_test_1","object":"event","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"checkout.session","payment_intent":%q}}}`,
		stripe.APIVersion, eventType, sessionId, paymentIntentId,
	)
}

func (s *TestSuite) TestPaymentWebhookCompletesCheckout() {
	os.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	defer os.Unsetenv("STRIPE_WEBHOOK_SECRET")

	router := setupRouter()
	stripeWebhookRoute(router)

	f := s.seedFleet(s.Tenant1, "P-8001", 30)
	start := time.Now().AddDate(0, 2, 0)
	booking := models.Booking{
		TenantID:   s.Tenant1.ID,
		CustomerID: f.Customer.ID,
		Status:     types.BOOKING_PENDING,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
		Total:      60,
		Currency:   "EUR",
	}
	assert.Nil(s.T(), s.DB.Create(&booking).Error)
	csId := "cs_test_p8001"
	payment := models.Payment{
		TenantID:          s.Tenant1.ID,
		BookingID:         booking.ID,
		Amount:            booking.Total,
		Currency:          booking.Currency,
		Status:            types.PAYMENT_PENDING,
		CheckoutSessionID: &csId,
	}
	assert.Nil(s.T(), s.DB.Create(&payment).Error)

	w := s.postStripeEvent(router, checkoutSessionEvent("checkout.session.completed", csId, "pi_test_p8001"))
	assert.Equal(s.T(), 200, w.Code)

	var got models.Payment
	assert.Nil(s.T(), s.DB.First(&got, payment.ID).Error)
	assert.Equal(s.T(), types.PAYMENT_PAID, got.Status)
	assert.Equal(s.T(), "pi_test_p8001", got.ReferenceID)

	var gotBooking models.Booking
	assert.Nil(s.T(), s.DB.First(&gotBooking, booking.ID).Error)
	assert.Equal(s.T(), types.BOOKING_CONFIRMED, gotBooking.Status)

	s.Run("a bad signature never reaches the database", func() {
		req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe",
			strings.NewReader(checkoutSessionEvent("checkout.session.completed", csId, "pi_forged")))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=deadbeef", time.Now().Unix()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(s.T(), 400, w.Code)

		var got models.Payment
		assert.Nil(s.T(), s.DB.First(&got, payment.ID).Error)
		assert.Equal(s.T(), "pi_test_p8001", got.ReferenceID)
	})
}

func (s *TestSuite) TestPaymentWebhookExpiresSession() {
	os.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	defer os.Unsetenv("STRIPE_WEBHOOK_SECRET")

	router := setupRouter()
	stripeWebhookRoute(router)

	f := s.seedFleet(s.Tenant1, "P-8101", 30)
	start := time.Now().AddDate(0, 2, 0)
	booking := models.Booking{
		TenantID:   s.Tenant1.ID,
		CustomerID: f.Customer.ID,
		Status:     types.BOOKING_PENDING,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
		Total:      60,
		Currency:   "EUR",
	}
	assert.Nil(s.T(), s.DB.Create(&booking).Error)
	csId := "cs_test_p8101"
	payment := models.Payment{
		TenantID:          s.Tenant1.ID,
		BookingID:         booking.ID,
		Amount:            booking.Total,
		Currency:          booking.Currency,
		Status:            types.PAYMENT_PENDING,
		CheckoutSessionID: &csId,
	}
	assert.Nil(s.T(), s.DB.Create(&payment).Error)

	w := s.postStripeEvent(router, checkoutSessionEvent("checkout.session.expired", csId, ""))
	assert.Equal(s.T(), 200, w.Code)

	var got models.Payment
	assert.Nil(s.T(), s.DB.First(&got, payment.ID).Error)
	assert.Equal(s.T(), types.PAYMENT_FAILED, got.Status)

	// The booking stays open for another checkout attempt.
	var gotBooking models.Booking
	assert.Nil(s.T(), s.DB.First(&gotBooking, booking.ID).Error)
	assert.Equal(s.T(), types.BOOKING_PENDING, gotBooking.Status)
}

func (s *TestSuite) TestPaymentEndpoints() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "P-8201", 30)
	start := time.Now().AddDate(0, 2, 0)
	booking := models.Booking{
		TenantID:   s.Tenant1.ID,
		CustomerID: f.Customer.ID,
		Status:     types.BOOKING_CANCELED,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
		Total:      60,
		Currency:   "EUR",
	}
	assert.Nil(s.T(), s.DB.Create(&booking).Error)

	s.Run("canceled bookings are not payable", func() {
		w := s.request(router, "POST", "/api/v1/checkout", types.CheckoutRequestBody{
			BookingID:  booking.ID,
			SuccessURL: "https://example.com/ok",
			CancelURL:  "https://example.com/no",
		}, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("checkout for an unknown booking is 404", func() {
		w := s.request(router, "POST", "/api/v1/checkout", types.CheckoutRequestBody{
			BookingID:  999999,
			SuccessURL: "https://example.com/ok",
			CancelURL:  "https://example.com/no",
		}, s.Owner1)
		assert.Equal(s.T(), 404, w.Code)
	})

	payment := models.Payment{
		TenantID:  s.Tenant1.ID,
		BookingID: booking.ID,
		Amount:    60,
		Currency:  "EUR",
		Status:    types.PAYMENT_CANCELED,
	}
	assert.Nil(s.T(), s.DB.Create(&payment).Error)

	s.Run("payments list under the booking", func() {
		w := s.request(router, "GET", fmt.Sprintf("/api/v1/bookings/%d/payments", booking.ID), nil, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "count").Int())
	})

	s.Run("payment read is tenant scoped", func() {
		w := s.request(router, "GET", fmt.Sprintf("/api/v1/payments/%d", payment.ID), nil, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), float64(60), gjson.Get(w.Body.String(), "data.amount").Float())

		w = s.request(router, "GET", fmt.Sprintf("/api/v1/payments/%d", payment.ID), nil, s.Owner2)
		assert.Equal(s.T(), 404, w.Code)
	})
}

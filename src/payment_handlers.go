package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"vrms/src/db"
	"vrms/src/lib"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(body.BookingID)).
				First(&booking).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			if booking.Status != types.BOOKING_PENDING && booking.Status != types.BOOKING_CONFIRMED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "booking is not payable"})
				return
			}
			csId, url, err := lib.CreateBookingCheckout(ctx, &lib.CheckoutInput{
				Description: fmt.Sprintf("Rental booking #%d", booking.ID),
				Amount:      booking.Total,
				Currency:    booking.Currency,
				SuccessURL:  body.SuccessURL,
				CancelURL:   body.CancelURL,
				Metadata: map[string]string{
					"booking_id": fmt.Sprint(booking.ID),
					"tenant_id":  tenantId.String(),
				},
			})
			if err != nil {
				log.Printf("error on checkout: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			payment := models.Payment{
				TenantID:          tenantId,
				BookingID:         booking.ID,
				Amount:            booking.Total,
				Currency:          booking.Currency,
				Status:            types.PAYMENT_PENDING,
				CheckoutSessionID: &csId,
			}
			if err := db.Create(&payment).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url, "data": payment})
		}).
		GET("/bookings/:id/payments", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			payments := []models.Payment{}
			if err := db.
				Model(&models.Payment{}).
				Scopes(scopes.ForTenant(tenantId)).
				Where("booking_id = ?", params.ID).
				Order("created_at desc").
				Find(&payments).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		}).
		GET("/payments/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var payment models.Payment
			if err := db.
				Model(&models.Payment{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&payment).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		})
	return g
}

// stripeWebhookRoute fills Payment.ReferenceID asynchronously: the checkout
// session id correlates the event back to the pending row.
func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			referenceId := ""
			if cs.PaymentIntent != nil {
				referenceId = cs.PaymentIntent.ID
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var payment models.Payment
				if err := tx.
					Model(&models.Payment{}).
					Where("checkout_session_id = ?", cs.ID).
					First(&payment).
					Error; err != nil {
					log.Printf("No payment found for session %s: %s\n", cs.ID, err.Error())
					return err
				}
				if err := tx.
					Model(&payment).
					Updates(map[string]any{
						"status":       types.PAYMENT_PAID,
						"reference_id": referenceId,
					}).
					Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Booking{}).
					Where("id = ?", payment.BookingID).
					Where("status = ?", types.BOOKING_PENDING).
					Update("status", types.BOOKING_CONFIRMED).
					Error
			})
			if err != nil {
				log.Printf("Error processing payment for session %s: %s\n", cs.ID, err.Error())
			}
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Payment{}).
				Where("checkout_session_id = ?", cs.ID).
				Where("status = ?", types.PAYMENT_PENDING).
				Update("status", types.PAYMENT_FAILED).
				Error; err != nil {
				log.Printf("Error expiring payment for session %s: %s\n", cs.ID, err.Error())
			}
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"vrms/src/db"
	"vrms/src/lib"
	"vrms/src/middlewares"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func invoiceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/invoices", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			q := db.
				Model(&models.Invoice{}).
				Scopes(scopes.ForTenant(tenantId))
			if status := ctx.Query("status"); status != "" {
				q = q.Scopes(scopes.WithStatus(status))
			}
			invoices := []models.Invoice{}
			if err := q.
				Order("issued_at desc").
				Limit(100).
				Find(&invoices).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invoices, "count": len(invoices)})
		}).
		GET("/invoices/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var invoice models.Invoice
			if err := db.
				Model(&models.Invoice{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&invoice).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invoice})
		}).
		POST("/bookings/:id/invoices", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var invoice models.Invoice
			err := db.Transaction(func(tx *gorm.DB) error {
				var booking models.Booking
				if err := tx.
					Model(&models.Booking{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					First(&booking).
					Error; err != nil {
					return err
				}
				if booking.Status == types.BOOKING_CANCELED {
					return fmt.Errorf("%w: canceled bookings cannot be invoiced", utils.ErrConflict)
				}
				number, err := utils.NextInvoiceNumber(tx, tenantId)
				if err != nil {
					return err
				}
				now := time.Now()
				invoice = models.Invoice{
					TenantID:  tenantId,
					BookingID: booking.ID,
					Number:    number,
					Amount:    booking.Total,
					Currency:  booking.Currency,
					Status:    types.INVOICE_ISSUED,
					IssuedAt:  now,
					DueAt:     now.Add(14 * 24 * time.Hour),
				}
				return tx.Create(&invoice).Error
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": invoice})
		}).
		POST("/invoices/:id/send", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.SendInvoiceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			db := db.GetDb()
			var invoice models.Invoice
			if err := db.
				Model(&models.Invoice{}).
				Scopes(scopes.ForTenant(tenant.ID), scopes.WithID(params.ID)).
				First(&invoice).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			mailBody := fmt.Sprintf(
				"Invoice %s\n\nAmount due: %.2f %s\nDue date: %s\n\n%s",
				invoice.Number, invoice.Amount, invoice.Currency,
				invoice.DueAt.Format("2006-01-02"), tenant.Name,
			)
			if err := lib.SendMail(&lib.SendMailInput{
				From:     os.Getenv("MAIL_FROM"),
				FromName: tenant.Name,
				To:       body.To,
				ReplyTo:  tenant.ContactEmail,
				Subject:  fmt.Sprintf("Invoice %s from %s", invoice.Number, tenant.Name),
				Body:     mailBody,
			}); err != nil {
				log.Printf("Could not send invoice %s: %s\n", invoice.Number, err.Error())
				utils.HTTPError(ctx, err)
				return
			}
			now := time.Now()
			if err := db.
				Model(&invoice).
				Update("emailed_at", &now).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invoice})
		}).
		PUT("/invoices/:id/void", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var invoice models.Invoice
				if err := tx.
					Model(&models.Invoice{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					First(&invoice).
					Error; err != nil {
					return err
				}
				if invoice.Status == types.INVOICE_PAID {
					return fmt.Errorf("%w: paid invoices cannot be voided", utils.ErrConflict)
				}
				return tx.
					Model(&invoice).
					Update("status", types.INVOICE_VOID).
					Error
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

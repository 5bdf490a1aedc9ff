package main

import (
	"net/http"
	"time"

	"vrms/src/config"
	"vrms/src/db"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// adminHandlers hosts the maintenance commands that used to be run as one-off
// scripts against the database. Every run, dry or not, leaves a TrailLog row.
func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/admin/commands/purge-canceled-bookings", func(ctx *gin.Context) {
			var body types.AdminCommandRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			before := time.Now()
			if body.Before != "" {
				parsed, err := time.Parse(config.DATE_PARSE_FORMAT, body.Before)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "before must be a YYYY-MM-DD date"})
					return
				}
				before = parsed
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()

			// Bookings that ever produced a signed contract are kept as the
			// legal record, whatever their status.
			candidateIds := []uint{}
			if err := db.
				Model(&models.Booking{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithStatus(string(types.BOOKING_CANCELED))).
				Where("end_date < ?", before).
				Where("id NOT IN (?)", db.
					Model(&models.Contract{}).
					Select("booking_id").
					Scopes(scopes.ForTenant(tenantId)).
					Where("signed_at IS NOT NULL")).
				Pluck("id", &candidateIds).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}

			purged := len(candidateIds)
			if !body.DryRun && purged > 0 {
				err := db.Transaction(func(tx *gorm.DB) error {
					if err := tx.
						Scopes(scopes.ForTenant(tenantId)).
						Where("booking_id IN ?", candidateIds).
						Delete(&models.Contract{}).
						Error; err != nil {
						return err
					}
					if err := tx.
						Scopes(scopes.ForTenant(tenantId)).
						Where("booking_id IN ?", candidateIds).
						Delete(&models.BookingVehicle{}).
						Error; err != nil {
						return err
					}
					if err := tx.
						Scopes(scopes.ForTenant(tenantId)).
						Where("booking_id IN ?", candidateIds).
						Delete(&models.Payment{}).
						Error; err != nil {
						return err
					}
					return tx.
						Scopes(scopes.ForTenant(tenantId), scopes.WithIDs(candidateIds...)).
						Delete(&models.Booking{}).
						Error
				})
				if err != nil {
					utils.HTTPError(ctx, err)
					return
				}
			}

			trail := models.TrailLog{
				TenantID:  tenantId,
				Type:      "purge-canceled-bookings",
				Initiator: ctx.GetString("email"),
				Group:     "admin-command",
				DryRun:    body.DryRun,
				Detail: types.JSONB{
					"before": before.Format(config.DATE_PARSE_FORMAT),
					"purged": purged,
				},
			}
			if err := db.Create(&trail).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trail, "purged": purged, "dry_run": body.DryRun})
		}).
		POST("/admin/commands/repair-booking-vehicles", func(ctx *gin.Context) {
			var body types.AdminCommandRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()

			// Join rows whose vehicle was hard-deleted out of band.
			danglingIds := []uint{}
			if err := db.
				Model(&models.BookingVehicle{}).
				Scopes(scopes.ForTenant(tenantId)).
				Where("vehicle_id NOT IN (?)", db.
					Model(&models.Vehicle{}).
					Select("id").
					Scopes(scopes.ForTenant(tenantId))).
				Pluck("id", &danglingIds).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}

			repaired := len(danglingIds)
			if !body.DryRun && repaired > 0 {
				if err := db.
					Scopes(scopes.ForTenant(tenantId), scopes.WithIDs(danglingIds...)).
					Delete(&models.BookingVehicle{}).
					Error; err != nil {
					utils.HTTPError(ctx, err)
					return
				}
			}

			trail := models.TrailLog{
				TenantID:  tenantId,
				Type:      "repair-booking-vehicles",
				Initiator: ctx.GetString("email"),
				Group:     "admin-command",
				DryRun:    body.DryRun,
				Detail: types.JSONB{
					"removed": repaired,
				},
			}
			if err := db.Create(&trail).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trail, "removed": repaired, "dry_run": body.DryRun})
		}).
		GET("/admin/trail", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			logs := []models.TrailLog{}
			if err := db.
				Model(&models.TrailLog{}).
				Scopes(scopes.ForTenant(tenantId)).
				Order("created_at desc").
				Find(&logs).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": logs, "count": len(logs)})
		})
	return g
}

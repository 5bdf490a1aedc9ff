package main

import (
	"fmt"
	"net/http"
	"time"

	"vrms/src/db"
	"vrms/src/middlewares"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func contractHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings/:id/contracts", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			contracts := []models.Contract{}
			if err := db.
				Model(&models.Contract{}).
				Scopes(scopes.ForTenant(tenantId)).
				Where("booking_id = ?", params.ID).
				Order("version desc").
				Find(&contracts).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": contracts, "count": len(contracts)})
		}).
		POST("/bookings/:id/contracts", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			db := db.GetDb()
			var contract models.Contract
			err := db.Transaction(func(tx *gorm.DB) error {
				var booking models.Booking
				if err := tx.
					Model(&models.Booking{}).
					Scopes(scopes.ForTenant(tenant.ID), scopes.WithID(params.ID)).
					Preload("Customer").
					Preload("BookingVehicles").
					Preload("BookingVehicles.Vehicle").
					First(&booking).
					Error; err != nil {
					return err
				}
				var signed int64
				if err := tx.
					Model(&models.Contract{}).
					Scopes(scopes.ForTenant(tenant.ID)).
					Where("booking_id = ?", params.ID).
					Where("signed_at IS NOT NULL").
					Count(&signed).
					Error; err != nil {
					return err
				}
				if signed > 0 {
					return fmt.Errorf("%w: booking already has a signed contract", utils.ErrImmutable)
				}
				version, err := utils.NextContractVersion(tx, tenant.ID, params.ID)
				if err != nil {
					return err
				}
				body, err := utils.RenderContract(tenant, &booking, version)
				if err != nil {
					return err
				}
				contract = models.Contract{
					TenantID:  tenant.ID,
					BookingID: params.ID,
					Version:   version,
					Body:      body,
				}
				return tx.Create(&contract).Error
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": contract})
		}).
		GET("/contracts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var contract models.Contract
			if err := db.
				Model(&models.Contract{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&contract).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": contract})
		}).
		POST("/contracts/:id/sign", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.SignContractRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var contract models.Contract
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Contract{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					First(&contract).
					Error; err != nil {
					return err
				}
				if contract.Signed() {
					return fmt.Errorf("%w: contract is already signed", utils.ErrImmutable)
				}
				now := time.Now()
				contract.SignedAt = &now
				contract.SignedBy = body.SignedBy
				return tx.
					Model(&models.Contract{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					Updates(map[string]any{"signed_at": &now, "signed_by": body.SignedBy}).
					Error
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": contract})
		}).
		DELETE("/contracts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var contract models.Contract
				if err := tx.
					Model(&models.Contract{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					First(&contract).
					Error; err != nil {
					return err
				}
				if contract.Signed() {
					return fmt.Errorf("%w: signed contracts cannot be deleted", utils.ErrImmutable)
				}
				return tx.
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					Delete(&models.Contract{}).
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

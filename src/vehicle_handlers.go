package main

import (
	"net/http"

	"vrms/src/db"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
)

func vehicleHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/vehicles", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			q := db.
				Model(&models.Vehicle{}).
				Scopes(scopes.ForTenant(tenantId))
			if status := ctx.Query("status"); status != "" {
				q = q.Scopes(scopes.WithStatus(status))
			}
			vehicles := []models.Vehicle{}
			if err := q.
				Preload("PricingGroup").
				Preload("Location").
				Order("plate asc").
				Limit(200).
				Find(&vehicles).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": vehicles, "count": len(vehicles)})
		}).
		GET("/vehicles/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var vehicle models.Vehicle
			if err := db.
				Model(&models.Vehicle{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Preload("PricingGroup").
				Preload("Location").
				First(&vehicle).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": vehicle})
		}).
		POST("/vehicles", func(ctx *gin.Context) {
			var body types.CreateVehicleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			vehicle := models.Vehicle{
				TenantID:       tenantId,
				Plate:          body.Plate,
				VIN:            body.VIN,
				Make:           body.Make,
				Model:          body.Model,
				Year:           body.Year,
				Odometer:       body.Odometer,
				Status:         types.VEHICLE_ACTIVE,
				PricingGroupID: body.PricingGroupID,
				LocationID:     body.LocationID,
				Notes:          body.Notes,
			}
			db := db.GetDb()
			// Duplicate plate within the tenant surfaces as a unique
			// violation on (tenant_id, plate) and maps to 409.
			if err := db.Create(&vehicle).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": vehicle})
		}).
		PUT("/vehicles/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateVehicleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Plate != nil {
				updates["plate"] = *body.Plate
			}
			if body.VIN != nil {
				updates["vin"] = *body.VIN
			}
			if body.Make != nil {
				updates["make"] = *body.Make
			}
			if body.Model != nil {
				updates["model"] = *body.Model
			}
			if body.Year != nil {
				updates["year"] = *body.Year
			}
			if body.Odometer != nil {
				updates["odometer"] = *body.Odometer
			}
			if body.Status != nil {
				updates["status"] = *body.Status
			}
			if body.PricingGroupID != nil {
				updates["pricing_group_id"] = *body.PricingGroupID
			}
			if body.LocationID != nil {
				updates["location_id"] = *body.LocationID
			}
			if body.Notes != nil {
				updates["notes"] = *body.Notes
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var vehicle models.Vehicle
			if err := db.
				Model(&models.Vehicle{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&vehicle).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			if len(updates) > 0 {
				if err := db.
					Model(&vehicle).
					Updates(updates).
					Error; err != nil {
					utils.HTTPError(ctx, err)
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": vehicle})
		}).
		DELETE("/vehicles/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			res := db.
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Delete(&models.Vehicle{})
			if res.Error != nil {
				utils.HTTPError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrNotFound.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

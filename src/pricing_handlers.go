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

// Pricing configuration: seasons, extras, and pricing groups are tenant-scoped
// lookup tables read when quoting a booking.
func pricingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/pricing/groups", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			groups := []models.PricingGroup{}
			if err := db.
				Model(&models.PricingGroup{}).
				Scopes(scopes.ForTenant(tenantId)).
				Order("name asc").
				Find(&groups).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": groups, "count": len(groups)})
		}).
		POST("/pricing/groups", func(ctx *gin.Context) {
			var body types.CreatePricingGroupRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			group := models.PricingGroup{
				TenantID:  utils.TenantID(ctx),
				Name:      body.Name,
				DailyRate: body.DailyRate,
			}
			db := db.GetDb()
			if err := db.Create(&group).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": group})
		}).
		PUT("/pricing/groups/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreatePricingGroupRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var group models.PricingGroup
			if err := db.
				Model(&models.PricingGroup{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&group).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			if err := db.
				Model(&group).
				Updates(map[string]any{"name": body.Name, "daily_rate": body.DailyRate}).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": group})
		}).
		DELETE("/pricing/groups/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			res := db.
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Delete(&models.PricingGroup{})
			if res.Error != nil {
				utils.HTTPError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrNotFound.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/pricing/seasons", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			seasons := []models.Season{}
			if err := db.
				Model(&models.Season{}).
				Scopes(scopes.ForTenant(tenantId)).
				Order("start_date asc").
				Find(&seasons).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seasons, "count": len(seasons)})
		}).
		POST("/pricing/seasons", func(ctx *gin.Context) {
			var body types.CreateSeasonRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := utils.ParseRentalDate(body.StartDate)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			end, err := utils.ParseRentalDate(body.EndDate)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			season := models.Season{
				TenantID:   utils.TenantID(ctx),
				Name:       body.Name,
				StartDate:  start,
				EndDate:    end,
				Multiplier: body.Multiplier,
			}
			db := db.GetDb()
			if err := db.Create(&season).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": season})
		}).
		DELETE("/pricing/seasons/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			res := db.
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Delete(&models.Season{})
			if res.Error != nil {
				utils.HTTPError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrNotFound.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/pricing/extras", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			extras := []models.Extra{}
			if err := db.
				Model(&models.Extra{}).
				Scopes(scopes.ForTenant(tenantId)).
				Order("name asc").
				Find(&extras).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": extras, "count": len(extras)})
		}).
		POST("/pricing/extras", func(ctx *gin.Context) {
			var body types.CreateExtraRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			extra := models.Extra{
				TenantID:    utils.TenantID(ctx),
				Name:        body.Name,
				Description: body.Description,
				Price:       body.Price,
				PerDay:      body.PerDay,
			}
			db := db.GetDb()
			if err := db.Create(&extra).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": extra})
		}).
		DELETE("/pricing/extras/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			res := db.
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Delete(&models.Extra{})
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

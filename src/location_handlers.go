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

func locationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/locations", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			locations := []models.Location{}
			if err := db.
				Model(&models.Location{}).
				Scopes(scopes.ForTenant(tenantId)).
				Order("name asc").
				Find(&locations).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": locations, "count": len(locations)})
		}).
		GET("/locations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var location models.Location
			if err := db.
				Model(&models.Location{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&location).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": location})
		}).
		POST("/locations", func(ctx *gin.Context) {
			var body types.CreateLocationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			location := models.Location{
				TenantID: utils.TenantID(ctx),
				Name:     body.Name,
				Address:  body.Address,
				City:     body.City,
				Country:  body.Country,
			}
			db := db.GetDb()
			if err := db.Create(&location).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": location})
		}).
		PUT("/locations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateLocationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var location models.Location
			if err := db.
				Model(&models.Location{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&location).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			if err := db.
				Model(&location).
				Updates(map[string]any{
					"name":    body.Name,
					"address": body.Address,
					"city":    body.City,
					"country": body.Country,
				}).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": location})
		}).
		DELETE("/locations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			res := db.
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Delete(&models.Location{})
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

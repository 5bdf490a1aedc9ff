package main

import (
	"fmt"
	"net/http"
	"path"

	"vrms/src/config"
	"vrms/src/db"
	awslib "vrms/src/lib/aws"
	"vrms/src/middlewares"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

func companyHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/company", func(ctx *gin.Context) {
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tenant})
		}).
		PUT("/company", func(ctx *gin.Context) {
			var body struct {
				Name         *string `json:"name"`
				Country      *string `json:"country"`
				Currency     *string `json:"currency"`
				ContactEmail *string `json:"email" binding:"omitempty,email"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Country != nil {
				updates["country"] = *body.Country
			}
			if body.Currency != nil {
				updates["currency"] = *body.Currency
			}
			if body.ContactEmail != nil {
				updates["contact_email"] = *body.ContactEmail
			}
			db := db.GetDb()
			if len(updates) > 0 {
				if err := db.
					Model(tenant).
					Updates(updates).
					Error; err != nil {
					utils.HTTPError(ctx, err)
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tenant})
		}).
		GET("/company/settings", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			settings := []models.Setting{}
			if err := db.
				Model(&models.Setting{}).
				Scopes(scopes.ForTenant(tenantId)).
				Order("\"group\" asc, setting_key asc").
				Find(&settings).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings, "count": len(settings)})
		}).
		PUT("/company/settings", func(ctx *gin.Context) {
			var body types.UpsertSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			setting := models.Setting{
				TenantID:     utils.TenantID(ctx),
				SettingKey:   body.SettingKey,
				Group:        body.Group,
				SettingValue: body.SettingValue,
			}
			db := db.GetDb()
			if err := db.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "setting_key"}, {Name: "group"}},
					DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
				}).
				Create(&setting).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": setting})
		}).
		DELETE("/company/settings/:key", func(ctx *gin.Context) {
			var params struct {
				SettingKey string `uri:"key" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			query := db.
				Scopes(scopes.ForTenant(tenantId)).
				Where("setting_key = ?", params.SettingKey)
			if group := ctx.Query("group"); group != "" {
				query = query.Where("\"group\" = ?", group)
			}
			tx := query.Delete(&models.Setting{})
			if tx.Error != nil {
				utils.HTTPError(ctx, tx.Error)
				return
			}
			if tx.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrNotFound.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/company/logo", func(ctx *gin.Context) {
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			fileHeader, err := ctx.FormFile("logo")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			defer file.Close()
			contentType := fileHeader.Header.Get("Content-Type")
			key := path.Join(tenant.ID.String(), fmt.Sprintf("logo%s", path.Ext(fileHeader.Filename)))
			if err := awslib.S3UploadFile(ctx, key, file, contentType); err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			db := db.GetDb()
			if err := db.
				Model(tenant).
				Update("logo_key", &key).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			url, err := awslib.S3PresignURL(ctx, key, config.SIGNED_URL_LOGO_TTL)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"url": url, "expires_in": int(config.SIGNED_URL_LOGO_TTL.Seconds())})
		}).
		GET("/company/logo", func(ctx *gin.Context) {
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			if tenant.LogoKey == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "no logo uploaded"})
				return
			}
			url, err := awslib.S3PresignURL(ctx, *tenant.LogoKey, config.SIGNED_URL_LOGO_TTL)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(config.SIGNED_URL_LOGO_TTL.Seconds())})
		}).
		GET("/files/:filename/url", func(ctx *gin.Context) {
			var params struct {
				Filename string `uri:"filename" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			// Object keys are tenant-prefixed, so a caller can only sign
			// URLs for files under its own prefix.
			key := path.Join(tenantId.String(), params.Filename)
			exists, err := awslib.S3ObjectExists(ctx, key)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			if !exists {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrNotFound.Error()})
				return
			}
			url, err := awslib.S3PresignURL(ctx, key, config.SIGNED_URL_TTL)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(config.SIGNED_URL_TTL.Seconds())})
		})
	return g
}

package main

import (
	"log"
	"net/http"
	"time"

	"vrms/src/config"
	"vrms/src/db"
	"vrms/src/models"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setSessionCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(config.SessionCookieName, token, int(config.SESSION_TTL.Seconds()), "/", "", false, true)
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		POST("/auth/register", func(ctx *gin.Context) {
			var body types.RegisterRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			hash, err := utils.HashPassword(body.Password)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			currency := body.Currency
			if currency == "" {
				currency = "EUR"
			}
			db := db.GetDb()
			var user models.User
			var tenant models.Tenant
			err = db.Transaction(func(tx *gorm.DB) error {
				tenantSlug, err := utils.NewTenantSlug(tx, body.CompanyName)
				if err != nil {
					return err
				}
				tenant = models.Tenant{
					Name:         body.CompanyName,
					Slug:         tenantSlug,
					Country:      body.Country,
					Currency:     currency,
					ContactEmail: body.Email,
				}
				if err := tx.Create(&tenant).Error; err != nil {
					return err
				}
				user = models.User{
					TenantID:     tenant.ID,
					Name:         body.Name,
					Email:        body.Email,
					PasswordHash: hash,
					Role:         types.ROLE_OWNER,
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Error registering tenant: %s\n", err.Error())
				utils.HTTPError(ctx, err)
				return
			}
			token, err := utils.GenerateSessionToken(&user)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			setSessionCookie(ctx, token)
			ctx.JSON(http.StatusCreated, gin.H{
				"data":  gin.H{"tenant": tenant, "user": user},
				"token": token,
			})
		}).
		POST("/auth/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var user models.User
			if err := db.
				Model(&models.User{}).
				Where("email = ?", body.Email).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			if !utils.CheckPassword(user.PasswordHash, body.Password) {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			token, err := utils.GenerateSessionToken(&user)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			now := time.Now()
			if err := db.
				Model(&models.User{}).
				Where("id = ?", user.ID).
				Update("last_login_at", &now).
				Error; err != nil {
				log.Printf("Could not record login time for user %d: %s\n", user.ID, err.Error())
			}
			setSessionCookie(ctx, token)
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		})
	return apiv1
}

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/auth/logout", func(ctx *gin.Context) {
			jti := ctx.GetString("session_id")
			if jti != "" {
				if err := utils.RevokeSession(jti); err != nil {
					log.Printf("Could not revoke session %s: %s\n", jti, err.Error())
				}
			}
			ctx.SetCookie(config.SessionCookieName, "", -1, "/", "", false, true)
			ctx.Status(http.StatusNoContent)
		}).
		GET("/auth/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.
				Model(&models.User{}).
				Where("id = ?", userId).
				Preload("Tenant").
				First(&user).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		})
	return g
}

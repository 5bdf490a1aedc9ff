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

func customerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/customers", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			q := db.
				Model(&models.Customer{}).
				Scopes(scopes.ForTenant(tenantId))
			if status := ctx.Query("status"); status != "" {
				q = q.Scopes(scopes.WithStatus(status))
			}
			if search := ctx.Query("q"); search != "" {
				q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
			}
			customers := []models.Customer{}
			if err := q.
				Order("last_name asc, first_name asc").
				Limit(200).
				Find(&customers).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customers, "count": len(customers)})
		}).
		GET("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var customer models.Customer
			if err := db.
				Model(&models.Customer{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&customer).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customer})
		}).
		POST("/customers", func(ctx *gin.Context) {
			var body types.CreateCustomerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			customer := models.Customer{
				TenantID:  tenantId,
				FirstName: body.FirstName,
				LastName:  body.LastName,
				Email:     body.Email,
				Phone:     body.Phone,
				LicenseNo: body.LicenseNo,
				Status:    types.CUSTOMER_ACTIVE,
			}
			db := db.GetDb()
			if err := db.Create(&customer).Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": customer})
		}).
		PUT("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateCustomerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.FirstName != nil {
				updates["first_name"] = *body.FirstName
			}
			if body.LastName != nil {
				updates["last_name"] = *body.LastName
			}
			if body.Email != nil {
				updates["email"] = *body.Email
			}
			if body.Phone != nil {
				updates["phone"] = *body.Phone
			}
			if body.LicenseNo != nil {
				updates["license_no"] = *body.LicenseNo
			}
			if body.Status != nil {
				updates["status"] = *body.Status
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var customer models.Customer
			if err := db.
				Model(&models.Customer{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				First(&customer).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			if len(updates) > 0 {
				if err := db.
					Model(&customer).
					Updates(updates).
					Error; err != nil {
					utils.HTTPError(ctx, err)
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customer})
		}).
		DELETE("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			res := db.
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Delete(&models.Customer{})
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

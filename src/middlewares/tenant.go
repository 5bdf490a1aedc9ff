package middlewares

import (
	"log"
	"net/http"

	"vrms/src/db"
	"vrms/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantGuard verifies the principal's tenant reference and loads the tenant
// row for downstream handlers. A dangling reference is a 404, not a 500: the
// caller addressed a tenant that does not exist.
func TenantGuard(ctx *gin.Context) {
	tenantID, err := uuid.Parse(ctx.GetString("tenant_id"))
	if err != nil || tenantID == uuid.Nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	var tenant models.Tenant
	if err := db.GetDb().
		Model(&models.Tenant{}).
		Where("id = ?", tenantID).
		First(&tenant).
		Error; err != nil {
		log.Printf("Could not resolve tenant %s: %s\n", tenantID, err.Error())
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	ctx.Set("tenant", &tenant)
}

// RequireRole gates a route group on the principal's role.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString("role")
		for _, r := range roles {
			if role == r {
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CurrentTenant returns the tenant loaded by TenantGuard.
func CurrentTenant(ctx *gin.Context) *models.Tenant {
	if v, ok := ctx.Get("tenant"); ok {
		if t, ok := v.(*models.Tenant); ok {
			return t
		}
	}
	return nil
}

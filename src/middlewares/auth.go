package middlewares

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"vrms/src/config"
	"vrms/src/db"
	"vrms/src/lib"
	"vrms/src/models"
	"vrms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func sessionToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(config.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	bearerToken := ctx.Request.Header.Get("Authorization")
	if strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.Split(bearerToken, " ")[1]
	}
	return ""
}

// AuthMiddleware resolves the session token into a principal. The token is a
// JWT whose jti must still be present in redis; logout deletes the jti, which
// revokes the token before its expiry.
func AuthMiddleware(ctx *gin.Context) {
	reqToken := sessionToken(ctx)
	if reqToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}

	rd := lib.GetRedisClient()
	if _, err := rd.Get(context.Background(), fmt.Sprintf("session:%s", claims.ID)).Result(); err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}
	var user models.User
	if err := db.GetDb().
		Model(&models.User{}).
		Where(&models.User{ID: uint(uid)}).
		First(&user).
		Error; err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("role", user.Role)
	ctx.Set("tenant_id", user.TenantID.String())
	ctx.Set("session_id", claims.ID)
}

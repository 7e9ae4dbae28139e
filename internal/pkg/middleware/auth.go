package middleware

import (
	"net/http"
	"strings"

	"coupon_day/pkg/response"
	"coupon_day/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT 인증 미들웨어. 검증된 storeID/customerID 를 컨텍스트에 주입한다
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAuthHeader(c)
		if !ok {
			return
		}

		if claims.StoreID != "" {
			c.Set("storeID", claims.StoreID)
		}
		if claims.CustomerID != "" {
			c.Set("customerID", claims.CustomerID)
		}
		c.Next()
	}
}

// StoreAuthMiddleware 매장 계정 전용 인증
func StoreAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAuthHeader(c)
		if !ok {
			return
		}

		if claims.StoreID == "" {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "매장 계정만 접근할 수 있습니다")
			c.Abort()
			return
		}

		c.Set("storeID", claims.StoreID)
		c.Next()
	}
}

// CustomerAuthMiddleware 고객 계정 전용 인증
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAuthHeader(c)
		if !ok {
			return
		}

		if claims.CustomerID == "" {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "고객 계정만 접근할 수 있습니다")
			c.Abort()
			return
		}

		c.Set("customerID", claims.CustomerID)
		c.Next()
	}
}

// OptionalAuthMiddleware 인증 헤더가 있으면 식별자를 주입하고 없으면 익명으로 통과
// (토큰 선택 등 비로그인 고객도 쓸 수 있는 경로 용)
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := utils.ParseToken(parts[1]); err == nil {
				if claims.StoreID != "" {
					c.Set("storeID", claims.StoreID)
				}
				if claims.CustomerID != "" {
					c.Set("customerID", claims.CustomerID)
				}
			}
		}
		c.Next()
	}
}

func parseAuthHeader(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		c.Abort()
		return nil, false
	}

	// "Bearer <token>" 형식 검사
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := utils.ParseToken(parts[1])
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
		c.Abort()
		return nil, false
	}

	return claims, true
}

// GetStoreID 컨텍스트에서 인증된 매장 ID 추출
func GetStoreID(c *gin.Context) string {
	val, _ := c.Get("storeID")
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// GetCustomerID 컨텍스트에서 인증된 고객 ID 추출
func GetCustomerID(c *gin.Context) string {
	val, _ := c.Get("customerID")
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

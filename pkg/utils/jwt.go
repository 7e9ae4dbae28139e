package utils

import (
	"time"

	"coupon_day/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// 인증 주체 타입
const (
	SubjectStore    = "store"
	SubjectCustomer = "customer"
)

// Claims 커스텀 JWT Claims. 매장 계정이면 StoreID, 고객 계정이면 CustomerID 가 채워진다
type Claims struct {
	StoreID    string `json:"store_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateStoreToken 매장 계정용 JWT 발급
func GenerateStoreToken(storeID string) (string, *time.Time, error) {
	return generate(Claims{StoreID: storeID}, SubjectStore)
}

// GenerateCustomerToken 고객 계정용 JWT 발급
func GenerateCustomerToken(customerID string) (string, *time.Time, error) {
	return generate(Claims{CustomerID: customerID}, SubjectCustomer)
}

func generate(claims Claims, subject string) (string, *time.Time, error) {
	now := time.Now()
	expireTime := now.Add(time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expireTime),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "coupon-day",
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tokenClaims.SignedString([]byte(config.GlobalConfig.JWT.Secret))
	if err != nil {
		return "", nil, err
	}
	return token, &expireTime, nil
}

// ParseToken JWT 검증
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chronolens/apperr"
)

// Claims is what a Chronolens bearer token carries: the stable user id and
// the quota tier. Handlers never look at anything else.
type Claims struct {
	UID  string `json:"uid"`
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// SignedToken mints an HS256 bearer token for uid at the given tier.
func SignedToken(secret string, ttl time.Duration, uid, tier string) (string, error) {
	claims := &Claims{
		UID:  uid,
		Tier: tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "chronolens",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a bearer token and returns its claims. Expired,
// malformed or wrongly signed tokens all report Unauthenticated.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.Unauthenticated, "invalid token")
	}
	if claims.UID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "invalid token")
	}
	return claims, nil
}

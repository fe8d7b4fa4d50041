package utils

import (
	"errors"
	"time"

	"github.com/userChris26/Macros-sub000/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 72 * time.Hour

// GenerateJWT issues the access token with the profile claims the clients
// render from (name, photo, bio) alongside the identity.
func GenerateJWT(user *models.User, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.FullName(),
		"photo":  user.ProfilePic,
		"bio":    user.Bio,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(secret)
}

// ParseJWT validates signature and expiry and returns the claims.
func ParseJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	return parseJWT(tokenString, secret)
}

// ParseExpiredJWT accepts a token past its expiry as long as the signature
// checks out. Used only by the sliding-refresh flow.
func ParseExpiredJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	return parseJWT(tokenString, secret, jwt.WithoutClaimsValidation())
}

func parseJWT(tokenString string, secret []byte, opts ...jwt.ParserOption) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

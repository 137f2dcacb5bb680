package apitest

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errRevoked = errors.New("token revoked")

// claims identify the user by the standard subject claim. Generation is
// compared against the backend's current generation so tests can expire
// every issued token at once.
type claims struct {
	jwt.RegisteredClaims
	Generation int `json:"gen"`
}

func issueToken(userID int64, generation int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Generation: generation,
	})
	return token.SignedString(secret)
}

func parseToken(tokenString string, generation int, secret []byte) (int64, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, c, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if c.Generation != generation {
		return 0, errRevoked
	}
	return strconv.ParseInt(c.Subject, 10, 64)
}

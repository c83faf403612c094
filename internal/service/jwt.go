package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT sets the signing secret. Must be called before tokens are issued.
func InitJWT(secret string) {
	if secret == "" {
		panic("jwt secret is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a session token for nick, used by the push stream and
// profile endpoints. Game operations keep re-verifying nick+password per call.
func GenerateJWT(nick string) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"nick": nick,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  now,
		"nbf":  now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < now {
		return "", errors.New("token expired")
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return "", errors.New("token not valid yet")
	}

	nick, ok := claims["nick"].(string)
	if !ok || nick == "" {
		return "", errors.New("nick not found")
	}

	return nick, nil
}

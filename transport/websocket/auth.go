package websocket

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingToken = errors.New("missing identity token")

// identityFromRequest verifies the opaque identity token the auth
// collaborator issued and extracts the player identity. This is the only
// failure that terminates a connection at protocol level.
func identityFromRequest(req *http.Request, secret string) (string, error) {
	tokenString := req.URL.Query().Get("token")
	if tokenString == "" {
		tokenString = req.Header.Get("Authorization")
		if after, found := cutBearer(tokenString); found {
			tokenString = after
		}
	}

	if tokenString == "" {
		return "", errMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse identity token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("identity token has no subject")
	}

	return subject, nil
}

func cutBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}

	return "", false
}

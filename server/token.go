package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const AuthLoggedIn AuthKey = iota

// AuthHandler is middleware that accepts a request, extracts the bearer
// token used for authentication, and validates it against the server's
// configured API secret. Unlike a per-user scheme, there is only ever one
// valid identity: "the holder of the secret".
//
// AuthLoggedIn is added to the request context before the request is passed
// to the next step in the chain (only meaningful for optional auth; for
// required auth, not being logged in results in an HTTP error being
// returned before the request reaches the next handler).
type AuthHandler struct {
	signingKey    []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool

	tok, err := getJWT(req)
	if err != nil {
		if ah.required {
			result := jsonUnauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			result.writeResponse(w, req)
			return
		}
	} else {
		if err := validateJWT(tok, ah.signingKey); err != nil {
			if ah.required {
				result := jsonUnauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				result.writeResponse(w, req)
				return
			}
		} else {
			loggedIn = true
		}
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func RequireAuth(signingKey []byte, unauthDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{signingKey: signingKey, unauthedDelay: unauthDelay, required: true, next: next}
}

func OptionalAuth(signingKey []byte, unauthDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{signingKey: signingKey, unauthedDelay: unauthDelay, required: false, next: next}
}

// validateJWT checks that tok was signed with signingKey and has not
// expired. There is no subject to look up: the signing key itself, derived
// from the server's configured secret, is the entire credential.
func validateJWT(tok string, signingKey []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("physunitsd"), jwt.WithLeeway(time.Minute))

	return err
}

func getJWT(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// generateJWT issues a token good for an hour, signed with signingKey.
func generateJWT(signingKey []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "physunitsd",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signingKey)
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

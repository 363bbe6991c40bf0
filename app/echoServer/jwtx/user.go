package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextKey is where echo-jwt stores the parsed token.
const ContextKey = "user"

func claims(c echo.Context) (jwt.MapClaims, error) {
	tok, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok || tok == nil {
		return nil, errors.New("no jwt token in context")
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid jwt claims")
	}
	return mc, nil
}

// Subject returns the token subject, or "anonymous" when the route is not
// behind JWT auth.
func Subject(c echo.Context) string {
	mc, err := claims(c)
	if err != nil {
		return "anonymous"
	}
	if s, ok := mc["sub"].(string); ok && s != "" {
		return s
	}
	return "anonymous"
}

func Role(c echo.Context) (string, error) {
	mc, err := claims(c)
	if err != nil {
		return "", err
	}
	if s, ok := mc["role"].(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("role missing in claims")
}

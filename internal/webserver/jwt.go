package webserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

// SessionClaims is the bearer token payload.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"aid,string"`
	ClientID  int64  `json:"cid,string"`
	Level     string `json:"level"`
	Username  string `json:"username"`
}

func NewSessionClaims(c echo.Context) jwt.Claims {
	return new(SessionClaims)
}

// IssueToken signs a session token for the account.
func IssueToken(secret string, account *domain.SysAccount, ttl time.Duration) (string, error) {
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		AccountID: account.ID,
		ClientID:  account.ClientId,
		Level:     account.Level,
		Username:  account.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CurrentClaims returns the claims of the authenticated request, or nil
// on public routes.
func CurrentClaims(c echo.Context) *SessionClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

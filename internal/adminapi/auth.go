package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

const tokenTTL = 24 * time.Hour

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
	webserver.ApiGET("/auth/whoami", whoami)
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	Token    string `json:"token"`
	Level    string `json:"level"`
	Username string `json:"username"`
	ClientId int64  `json:"client_id,string"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var account domain.SysAccount
	err := GetDB(c).
		Where("username = ? OR email = ?", payload.Username, payload.Username).
		First(&account).Error
	if err != nil {
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid username or password", nil)
	}

	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	if hashed != account.Password {
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid username or password", nil)
	}
	if account.Status != common.ENABLED {
		return fail(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled", nil)
	}

	token, err := webserver.IssueToken(GetApp(c).Config().Web.JwtSecret, &account, tokenTTL)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}

	GetDB(c).Model(&domain.SysAccount{}).Where("id = ?", account.ID).
		Update("last_login", time.Now())
	oplog(c, "login", "account "+account.Username+" logged in")

	return ok(c, loginResult{
		Token:    token,
		Level:    account.Level,
		Username: account.Username,
		ClientId: account.ClientId,
	})
}

func whoami(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "AUTH_REQUIRED", "No session", nil)
	}
	var account domain.SysAccount
	if err := GetDB(c).Where("id = ?", claims.AccountID).First(&account).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Account not found", nil)
	}
	return ok(c, account)
}

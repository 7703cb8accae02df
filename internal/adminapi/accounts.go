package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

var accountLevels = []string{
	domain.AccountLevelSuper,
	domain.AccountLevelEmployee,
	domain.AccountLevelClient,
}

func registerAccountRoutes() {
	webserver.ApiGET("/accounts", staffOnly(listAccounts))
	webserver.ApiGET("/accounts/:id", staffOnly(getAccount))
	webserver.ApiPOST("/accounts", staffOnly(createAccount))
	webserver.ApiPUT("/accounts/:id", staffOnly(updateAccount))
	webserver.ApiDELETE("/accounts/:id", staffOnly(deleteAccount))
}

func listAccounts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.SysAccount{})
	if level := strings.TrimSpace(c.QueryParam("level")); level != "" {
		db = db.Where("level = ?", level)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(realname) LIKE ?", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounts", err.Error())
	}

	var accounts []domain.SysAccount
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&accounts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounts", err.Error())
	}
	return paged(c, accounts, total, page, pageSize)
}

func getAccount(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}
	var account domain.SysAccount
	if err := GetDB(c).Where("id = ?", id).First(&account).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}
	return ok(c, account)
}

type accountPayload struct {
	ClientId int64  `json:"client_id,string"`
	Realname string `json:"realname"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Level    string `json:"level"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}

func createAccount(c echo.Context) error {
	var payload accountPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse account parameters", nil)
	}
	payload.Username = strings.TrimSpace(strings.ToLower(payload.Username))
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Username == "" {
		return fail(c, http.StatusBadRequest, "MISSING_USERNAME", "Username is required", nil)
	}
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return fail(c, http.StatusBadRequest, "INVALID_EMAIL", "A valid email is required", nil)
	}
	if len(payload.Password) < 6 {
		return fail(c, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 6 characters", nil)
	}
	if !common.InSlice(payload.Level, accountLevels) {
		return fail(c, http.StatusBadRequest, "INVALID_LEVEL",
			"Level must be one of: "+strings.Join(accountLevels, ", "), nil)
	}

	var dup domain.SysAccount
	if err := GetDB(c).Where("username = ? OR email = ?", payload.Username, payload.Email).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_ACCOUNT", "An account with this username or email already exists", nil)
	}

	account := domain.SysAccount{
		ID:        common.UUIDint64(),
		ClientId:  payload.ClientId,
		Realname:  payload.Realname,
		Email:     payload.Email,
		Username:  payload.Username,
		Password:  common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()),
		Level:     payload.Level,
		Status:    common.ENABLED,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&account).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}
	oplog(c, "account.create", "created account "+account.Username)
	return ok(c, account)
}

func updateAccount(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}
	var payload accountPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse account parameters", nil)
	}
	var account domain.SysAccount
	if err := GetDB(c).Where("id = ?", id).First(&account).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Realname != "" {
		updates["realname"] = payload.Realname
	}
	if payload.Email != "" {
		email := strings.TrimSpace(strings.ToLower(payload.Email))
		var dup domain.SysAccount
		if err := GetDB(c).Where("email = ? AND id != ?", email, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_ACCOUNT", "Another account with this email already exists", nil)
		}
		updates["email"] = email
	}
	if payload.Password != "" {
		if len(payload.Password) < 6 {
			return fail(c, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 6 characters", nil)
		}
		updates["password"] = common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	}
	if payload.Level != "" {
		if !common.InSlice(payload.Level, accountLevels) {
			return fail(c, http.StatusBadRequest, "INVALID_LEVEL",
				"Level must be one of: "+strings.Join(accountLevels, ", "), nil)
		}
		updates["level"] = payload.Level
	}
	if payload.Status != "" {
		if payload.Status != common.ENABLED && payload.Status != common.DISABLED {
			return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be enabled or disabled", nil)
		}
		updates["status"] = payload.Status
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&account).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update account", err.Error())
	}
	oplog(c, "account.update", "updated account "+account.Username)
	GetDB(c).Where("id = ?", id).First(&account)
	return ok(c, account)
}

func deleteAccount(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}
	claims := webserver.CurrentClaims(c)
	if claims != nil && claims.AccountID == id {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "You cannot delete your own account", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.SysAccount{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete account", err.Error())
	}
	oplog(c, "account.delete", "deleted account")
	return ok(c, map[string]interface{}{"id": id})
}

package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/notify"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func registerRegisterRoutes() {
	webserver.PubPOST("/store/register", registerClientAccount)
}

type registerPayload struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Dni      string `json:"dni"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p *registerPayload) validate() (string, string) {
	p.Name = strings.TrimSpace(p.Name)
	p.Dni = strings.TrimSpace(p.Dni)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Username = strings.TrimSpace(strings.ToLower(p.Username))
	if p.Name == "" {
		return "MISSING_NAME", "Name is required"
	}
	if p.Dni == "" {
		return "MISSING_DNI", "DNI is required"
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return "INVALID_EMAIL", "A valid email is required"
	}
	if p.Username == "" {
		p.Username = p.Email
	}
	if len(p.Password) < 6 {
		return "WEAK_PASSWORD", "Password must be at least 6 characters"
	}
	return "", ""
}

// registerClientAccount creates a client record plus its login account in
// one transaction.
func registerClientAccount(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	var dup domain.Client
	if err := GetDB(c).Where("dni = ? OR email = ?", payload.Dni, payload.Email).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_CLIENT", "A client with this DNI or email already exists", nil)
	}
	var dupAccount domain.SysAccount
	if err := GetDB(c).Where("username = ? OR email = ?", payload.Username, payload.Email).
		First(&dupAccount).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_ACCOUNT", "An account with this username or email already exists", nil)
	}

	client := domain.Client{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Surname:   payload.Surname,
		Dni:       payload.Dni,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Address:   payload.Address,
		City:      payload.City,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	account := domain.SysAccount{
		ID:        common.UUIDint64(),
		ClientId:  client.ID,
		Realname:  payload.Name + " " + payload.Surname,
		Email:     payload.Email,
		Username:  payload.Username,
		Password:  common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()),
		Level:     domain.AccountLevelClient,
		Status:    common.ENABLED,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}

	GetApp(c).Notify().Publish(notify.Message{
		AccountID: account.ID,
		Email:     account.Email,
		Kind:      domain.NotifyKindSystem,
		Title:     "Welcome",
		Body:      "Your account is ready. You can book appointments and shop online.",
	})
	return ok(c, map[string]interface{}{
		"client_id":  client.ID,
		"account_id": account.ID,
		"username":   account.Username,
	})
}

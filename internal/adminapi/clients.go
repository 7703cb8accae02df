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

func registerClientRoutes() {
	webserver.ApiGET("/clients", staffOnly(listClients))
	webserver.ApiGET("/clients/:id", staffOnly(getClient))
	webserver.ApiPOST("/clients", staffOnly(createClient))
	webserver.ApiPUT("/clients/:id", staffOnly(updateClient))
	webserver.ApiDELETE("/clients/:id", staffOnly(deleteClient))
}

func listClients(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Client{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR LOWER(email) LIKE ? OR dni LIKE ?",
			like, like, like, "%"+q+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query clients", err.Error())
	}

	var clients []domain.Client
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&clients).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query clients", err.Error())
	}
	return paged(c, clients, total, page, pageSize)
}

func getClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid client ID", nil)
	}
	var client domain.Client
	if err := GetDB(c).Where("id = ?", id).First(&client).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query client", err.Error())
	}
	return ok(c, client)
}

type clientPayload struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Dni     string `json:"dni"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Remark  string `json:"remark"`
}

func (p *clientPayload) validate() (string, string) {
	p.Name = strings.TrimSpace(p.Name)
	p.Dni = strings.TrimSpace(p.Dni)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Name == "" {
		return "MISSING_NAME", "Client name is required"
	}
	if p.Dni == "" {
		return "MISSING_DNI", "Client DNI is required"
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return "INVALID_EMAIL", "A valid email is required"
	}
	return "", ""
}

func createClient(c echo.Context) error {
	var payload clientPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse client parameters", nil)
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	var dup domain.Client
	if err := GetDB(c).Where("dni = ? OR email = ?", payload.Dni, payload.Email).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_CLIENT", "A client with this DNI or email already exists", nil)
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
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&client).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create client", err.Error())
	}
	oplog(c, "client.create", "created client "+client.Dni)
	return ok(c, client)
}

func updateClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid client ID", nil)
	}
	var payload clientPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse client parameters", nil)
	}
	var client domain.Client
	if err := GetDB(c).Where("id = ?", id).First(&client).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query client", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Surname != "" {
		updates["surname"] = payload.Surname
	}
	if payload.Dni != "" {
		var dup domain.Client
		if err := GetDB(c).Where("dni = ? AND id != ?", payload.Dni, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CLIENT", "Another client with this DNI already exists", nil)
		}
		updates["dni"] = payload.Dni
	}
	if payload.Email != "" {
		email := strings.TrimSpace(strings.ToLower(payload.Email))
		var dup domain.Client
		if err := GetDB(c).Where("email = ? AND id != ?", email, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CLIENT", "Another client with this email already exists", nil)
		}
		updates["email"] = email
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	if payload.City != "" {
		updates["city"] = payload.City
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&client).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update client", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&client)
	return ok(c, client)
}

func deleteClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid client ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Client{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete client", err.Error())
	}
	oplog(c, "client.delete", "deleted client")
	return ok(c, map[string]interface{}{"id": id})
}

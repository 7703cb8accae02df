package adminapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", staffOnly(listSettings))
	webserver.ApiPUT("/settings/:id", staffOnly(updateSetting))
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("type ASC, sort ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

type settingPayload struct {
	Value string `json:"value"`
}

func updateSetting(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid setting ID", nil)
	}
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", nil)
	}
	var row domain.SysConfig
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SETTING_NOT_FOUND", "Setting not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query setting", err.Error())
	}

	if err := GetDB(c).Model(&row).Updates(map[string]interface{}{
		"value":      payload.Value,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}
	oplog(c, "settings.update", row.Type+"."+row.Name+" = "+payload.Value)
	GetDB(c).Where("id = ?", id).First(&row)
	return ok(c, row)
}

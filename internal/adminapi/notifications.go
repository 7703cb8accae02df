package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/notify"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

func registerNotificationRoutes() {
	webserver.ApiGET("/notifications", listNotifications)
	webserver.ApiPUT("/notifications/:id/read", markNotificationRead)
	webserver.ApiDELETE("/notifications/:id", deleteNotification)
	webserver.ApiPOST("/chat/send", sendChatMessage)
}

// listNotifications returns the inbox of the authenticated account.
func listNotifications(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Notification{}).Where("account_id = ?", claims.AccountID)
	if unread := strings.TrimSpace(c.QueryParam("unread")); unread == "true" {
		db = db.Where("read = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query notifications", err.Error())
	}

	var rows []domain.Notification
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query notifications", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func markNotificationRead(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID", nil)
	}
	res := GetDB(c).Model(&domain.Notification{}).
		Where("id = ? AND account_id = ?", id, claims.AccountID).
		Updates(map[string]interface{}{"read": true, "updated_at": time.Now()})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update notification", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id, "read": true})
}

func deleteNotification(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID", nil)
	}
	if err := GetDB(c).Where("id = ? AND account_id = ?", id, claims.AccountID).
		Delete(&domain.Notification{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete notification", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type chatPayload struct {
	ToAccount int64  `json:"to_account,string"`
	Body      string `json:"body"`
}

// sendChatMessage emits an outbound chat event on the pub/sub boundary.
func sendChatMessage(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	var payload chatPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse chat message", nil)
	}
	payload.Body = strings.TrimSpace(payload.Body)
	if payload.Body == "" || payload.ToAccount == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "to_account and body are required", nil)
	}

	GetApp(c).Notify().PublishChat(notify.ChatMessage{
		FromAccount: claims.AccountID,
		ToAccount:   payload.ToAccount,
		Body:        payload.Body,
		SentAt:      time.Now(),
	})
	return ok(c, map[string]interface{}{"status": "sent"})
}

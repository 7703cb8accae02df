// Package adminapi serves the authenticated back-office CRUD panels:
// accounts, clients, employees, pets, products, appointments, sales,
// inventory usage, notifications and system settings.
package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/app"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

// InitRouter registers every admin route on the web server.
func InitRouter() {
	registerAuthRoutes()
	registerAccountRoutes()
	registerClientRoutes()
	registerEmployeeRoutes()
	registerPetRoutes()
	registerProductRoutes()
	registerAppointmentRoutes()
	registerSaleRoutes()
	registerInventoryRoutes()
	registerNotificationRoutes()
	registerSettingsRoutes()
	registerExportRoutes()
	registerMetricRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, msgtype, msg string, detail interface{}) error {
	return webserver.Fail(c, status, msgtype, msg, detail)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, rows, total, page, pageSize)
}

func parsePagination(c echo.Context) (int, int) {
	return webserver.ParsePagination(c)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return webserver.ParseIDParam(c, name)
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func GetApp(c echo.Context) app.AppContext {
	return webserver.GetApp(c)
}

// staffOnly rejects storefront client tokens on back-office routes.
func staffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := webserver.CurrentClaims(c)
		if claims == nil || claims.Level == domain.AccountLevelClient {
			return fail(c, http.StatusForbidden, "FORBIDDEN", "Staff access required", nil)
		}
		return next(c)
	}
}

// oplog records an admin action for the audit trail.
func oplog(c echo.Context, action, desc string) {
	claims := webserver.CurrentClaims(c)
	name := "anonymous"
	if claims != nil {
		name = claims.Username
	}
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   name,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}

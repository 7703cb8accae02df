// Package storeapi serves the public storefront: catalog browsing with
// filter/sort/pagination, the session cart, booking slots and checkout.
package storeapi

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/app"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

// InitRouter registers every storefront route on the web server.
func InitRouter() {
	registerCatalogRoutes()
	registerCartRoutes()
	registerBookingRoutes()
	registerRegisterRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, msgtype, msg string, detail interface{}) error {
	return webserver.Fail(c, status, msgtype, msg, detail)
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func GetApp(c echo.Context) app.AppContext {
	return webserver.GetApp(c)
}

// cartID returns the cart key of the browser session, minting one on
// first use.
func cartID(c echo.Context) (string, error) {
	sess, err := session.Get(webserver.SessionName, c)
	if err != nil {
		return "", err
	}
	if id, ok := sess.Values["cart_id"].(string); ok && id != "" {
		return id, nil
	}
	id := random.String(24)
	sess.Values["cart_id"] = id
	sess.Options = &sessions.Options{Path: "/", MaxAge: 86400 * 7, HttpOnly: true}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return id, nil
}

// Package webserver owns the Echo instance: middleware, route groups and
// the response envelope shared by the admin and storefront APIs.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vetsoftlabs/vetstore/internal/app"
	"github.com/vetsoftlabs/vetstore/pkg/metrics"
)

const (
	AppContextKey = "appctx"
	SessionName   = "vetstore"
)

var server *WebServer

type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
	public *echo.Group
	api    *echo.Group
}

// Init builds the global web server around the application context.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(appCtx.Config().Web.SessionSecret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			start := time.Now()
			err := next(c)
			metrics.IncrCounter("http_requests", 1)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	})

	public := e.Group("/api/v1")
	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: NewSessionClaims,
		SigningKey:    []byte(appCtx.Config().Web.JwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, RestResult{
				Code:    http.StatusUnauthorized,
				Msgtype: "AUTH_REQUIRED",
				Msg:     "A valid bearer token is required",
			})
		},
	}))

	server = &WebServer{appCtx: appCtx, root: e, public: public, api: api}
	return server
}

// Instance returns the initialized web server.
func Instance() *WebServer {
	return server
}

// Start runs the HTTP listener until ctx is cancelled.
func (ws *WebServer) Start(ctx context.Context) error {
	cfg := ws.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- ws.root.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.root.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Echo exposes the underlying engine (used in tests).
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

// PubGET registers an unauthenticated route.
func PubGET(path string, h echo.HandlerFunc) {
	server.public.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.public.POST(path, h)
}

// ApiGET registers a bearer-token protected route.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiPATCH(path string, h echo.HandlerFunc) {
	server.api.PATCH(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

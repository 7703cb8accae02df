package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/app"
)

// RestResult is the uniform response envelope.
type RestResult struct {
	Code    int         `json:"code"`
	Msgtype string      `json:"msgtype,omitempty"`
	Msg     string      `json:"msg,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedResult wraps list responses.
type PagedResult struct {
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Data       interface{} `json:"data"`
}

// GetApp extracts the application context injected by middleware.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(AppContextKey).(app.AppContext)
}

// GetDB returns the shared gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

// OK writes a success envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, RestResult{Code: 0, Data: data})
}

// Fail writes an error envelope. Every handler failure funnels through
// here so no error escapes as a bare 500 page.
func Fail(c echo.Context, status int, msgtype, msg string, detail interface{}) error {
	return c.JSON(status, RestResult{Code: status, Msgtype: msgtype, Msg: msg, Detail: detail})
}

// Paged writes a paged list envelope.
func Paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, RestResult{Code: 0, Data: PagedResult{
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		Data:       rows,
	}})
}

// ParsePagination reads page/perPage query params with sane bounds.
func ParsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	} else if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// ParseIDParam parses an int64 path parameter.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

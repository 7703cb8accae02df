package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/metrics"
)

func registerMetricRoutes() {
	webserver.ApiGET("/metrics/:name", staffOnly(queryMetric))
}

// queryMetric returns the datapoints of one metric for the dashboard
// charts. The range defaults to the last hour.
func queryMetric(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_METRIC", "Metric name is required", nil)
	}

	now := time.Now().Unix()
	start := cast.ToInt64(c.QueryParam("start"))
	end := cast.ToInt64(c.QueryParam("end"))
	if start <= 0 {
		start = now - 3600
	}
	if end <= 0 {
		end = now
	}
	if end <= start {
		return fail(c, http.StatusBadRequest, "INVALID_RANGE", "end must be after start", nil)
	}

	points, err := metrics.Select(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, map[string]interface{}{"metric": name, "points": points})
}

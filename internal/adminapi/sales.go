package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func registerSaleRoutes() {
	webserver.ApiGET("/sales", staffOnly(listSales))
	webserver.ApiGET("/sales/stats", staffOnly(saleStats))
	webserver.ApiGET("/sales/:id", staffOnly(getSale))
	webserver.ApiPUT("/sales/:id", staffOnly(updateSale))
	webserver.ApiDELETE("/sales/:id", staffOnly(deleteSale))
}

func listSales(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Sale{})
	if clientID := strings.TrimSpace(c.QueryParam("client_id")); clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	var sales []domain.Sale
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&sales).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}
	return paged(c, sales, total, page, pageSize)
}

func getSale(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	var sale domain.Sale
	if err := GetDB(c).Where("id = ?", id).First(&sale).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SALE_NOT_FOUND", "Sale not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sale", err.Error())
	}
	if err := GetDB(c).Where("sale_id = ?", id).Find(&sale.Lines).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sale lines", err.Error())
	}
	return ok(c, sale)
}

var saleStatuses = []string{domain.SalePendingPayment, domain.SalePaid, domain.SaleCancelled}

type salePayload struct {
	Status string `json:"status"`
}

func updateSale(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale parameters", nil)
	}
	if !common.InSlice(payload.Status, saleStatuses) {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS",
			"Status must be one of: "+strings.Join(saleStatuses, ", "), nil)
	}
	var sale domain.Sale
	if err := GetDB(c).Where("id = ?", id).First(&sale).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SALE_NOT_FOUND", "Sale not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sale", err.Error())
	}

	if err := GetDB(c).Model(&sale).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update sale", err.Error())
	}
	oplog(c, "sale.update", "sale status set to "+payload.Status)
	GetDB(c).Where("id = ?", id).First(&sale)
	return ok(c, sale)
}

func deleteSale(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&domain.SaleLine{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Sale{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete sale", err.Error())
	}
	oplog(c, "sale.delete", "deleted sale")
	return ok(c, map[string]interface{}{"id": id})
}

type saleStatsResult struct {
	Count        int     `json:"count"`
	Revenue      float64 `json:"revenue"`
	MeanTicket   float64 `json:"mean_ticket"`
	MedianTicket float64 `json:"median_ticket"`
	P90Ticket    float64 `json:"p90_ticket"`
}

// saleStats summarizes paid sales for the dashboard.
func saleStats(c echo.Context) error {
	var totals []float64
	if err := GetDB(c).Model(&domain.Sale{}).
		Where("status = ?", domain.SalePaid).
		Pluck("total", &totals).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	result := saleStatsResult{Count: len(totals)}
	if len(totals) > 0 {
		result.Revenue, _ = stats.Sum(totals)
		result.MeanTicket, _ = stats.Mean(totals)
		result.MedianTicket, _ = stats.Median(totals)
		result.P90Ticket, _ = stats.Percentile(totals, 90)
	}
	return ok(c, result)
}

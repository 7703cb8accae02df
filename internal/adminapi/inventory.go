package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func registerInventoryRoutes() {
	webserver.ApiGET("/inventory", staffOnly(listInventoryUsage))
	webserver.ApiGET("/inventory/:id", staffOnly(getInventoryUsage))
	webserver.ApiPOST("/inventory", staffOnly(createInventoryUsage))
	webserver.ApiDELETE("/inventory/:id", staffOnly(deleteInventoryUsage))
}

func listInventoryUsage(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.InventoryUsage{})
	if productID := strings.TrimSpace(c.QueryParam("product_id")); productID != "" {
		db = db.Where("product_id = ?", productID)
	}
	if employeeID := strings.TrimSpace(c.QueryParam("employee_id")); employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory usage", err.Error())
	}

	var rows []domain.InventoryUsage
	if err := db.Order("used_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory usage", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getInventoryUsage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid usage ID", nil)
	}
	var row domain.InventoryUsage
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USAGE_NOT_FOUND", "Inventory usage not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory usage", err.Error())
	}
	return ok(c, row)
}

type inventoryPayload struct {
	ProductId  int64  `json:"product_id,string"`
	EmployeeId int64  `json:"employee_id,string"`
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
}

// createInventoryUsage records stock spent internally, decrementing the
// product stock in the same transaction.
func createInventoryUsage(c echo.Context) error {
	var payload inventoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse usage parameters", nil)
	}
	if payload.ProductId == 0 || payload.Quantity <= 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "product_id and a positive quantity are required", nil)
	}

	row := domain.InventoryUsage{
		ID:         common.UUIDint64(),
		ProductId:  payload.ProductId,
		EmployeeId: payload.EmployeeId,
		Quantity:   payload.Quantity,
		Reason:     payload.Reason,
		UsedAt:     time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	err := GetDB(c).Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		if err := tx.Where("id = ?", payload.ProductId).First(&product).Error; err != nil {
			return err
		}
		if product.Stock < payload.Quantity {
			return fmt.Errorf("only %d units left of product %d", product.Stock, product.ID)
		}
		if err := tx.Model(&domain.Product{}).Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", payload.Quantity)).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusBadRequest, "UNKNOWN_PRODUCT", "Product does not exist", nil)
		}
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	}
	oplog(c, "inventory.create", "recorded inventory usage")
	return ok(c, row)
}

// deleteInventoryUsage reverses a usage record, restoring the stock.
func deleteInventoryUsage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid usage ID", nil)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		var row domain.InventoryUsage
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Product{}).Where("id = ?", row.ProductId).
			Update("stock", gorm.Expr("stock + ?", row.Quantity)).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.InventoryUsage{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "USAGE_NOT_FOUND", "Inventory usage not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete inventory usage", err.Error())
	}
	oplog(c, "inventory.delete", "reversed inventory usage")
	return ok(c, map[string]interface{}{"id": id})
}

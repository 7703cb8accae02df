package adminapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/catalog"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

type productPayload struct {
	Description      string   `json:"description"`
	Brand            string   `json:"brand"`
	Price            float64  `json:"price"`
	Stock            *int     `json:"stock"`
	WeightKg         *float64 `json:"weight_kg"`
	ImageURL         string   `json:"image_url"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`
	Installments     int      `json:"installments"`
	InstallmentPrice float64  `json:"installment_price"`
}

// registerProductRoutes registers product CRUD endpoints for the admin panel
func registerProductRoutes() {
	webserver.ApiGET("/products", staffOnly(listProducts))
	webserver.ApiGET("/products/:id", staffOnly(getProduct))
	webserver.ApiPOST("/products", staffOnly(createProduct))
	webserver.ApiPOST("/products/import", staffOnly(importProducts))
	webserver.ApiPUT("/products/:id", staffOnly(updateProduct))
	webserver.ApiDELETE("/products/:id", staffOnly(deleteProduct))
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))
	subcategory := strings.TrimSpace(c.QueryParam("subcategory"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"brand":      "brand",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, ok := allowed[sortField]
	if !ok || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("description ILIKE ? OR brand ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", like, like)
		}
	}
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if subcategory != "" {
		db = db.Where("subcategory = ?", subcategory)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func (p *productPayload) validate() (string, string) {
	p.Description = strings.TrimSpace(p.Description)
	p.Brand = strings.TrimSpace(p.Brand)
	if p.Description == "" {
		return "INVALID_REQUEST", "Description is required"
	}
	if p.Brand == "" {
		return "INVALID_REQUEST", "Brand is required"
	}
	if p.Price < 0 {
		return "INVALID_REQUEST", "Price must not be negative"
	}
	if p.Stock != nil && *p.Stock < 0 {
		return "INVALID_REQUEST", "Stock must not be negative"
	}
	if p.WeightKg != nil && *p.WeightKg <= 0 {
		return "INVALID_REQUEST", "Weight must be positive when present"
	}
	return "", ""
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	stock := 0
	if payload.Stock != nil {
		stock = *payload.Stock
	}

	now := time.Now()
	p := domain.Product{
		Description:      payload.Description,
		Brand:            payload.Brand,
		Price:            payload.Price,
		Stock:            stock,
		WeightKg:         payload.WeightKg,
		ImageURL:         strings.TrimSpace(payload.ImageURL),
		Category:         payload.Category,
		Subcategory:      payload.Subcategory,
		Installments:     payload.Installments,
		InstallmentPrice: payload.InstallmentPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	oplog(c, "product.create", "created product "+p.Description)
	return ok(c, p)
}

// importProducts bulk-loads the legacy product list payload, where numeric
// fields may arrive as strings. Existing IDs are updated, new ones created.
func importProducts(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read import payload", err.Error())
	}
	items, err := catalog.DecodeProducts(body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Unable to decode product list", err.Error())
	}
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_PAYLOAD", "Product list is empty", nil)
	}

	var created, updated int
	now := time.Now()
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			var count int64
			if item.ID != 0 {
				if err := tx.Model(&domain.Product{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
					return err
				}
			}
			if count > 0 {
				err := tx.Model(&domain.Product{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
					"description":       item.Description,
					"brand":             item.Brand,
					"price":             item.Price,
					"stock":             item.Stock,
					"weight_kg":         item.Weight,
					"image_url":         item.ImageURL,
					"category":          item.Category,
					"subcategory":       item.Subcategory,
					"installments":      item.Installments,
					"installment_price": item.InstallmentPrice,
					"updated_at":        now,
				}).Error
				if err != nil {
					return err
				}
				updated++
				continue
			}
			row := domain.Product{
				ID:               item.ID,
				Description:      item.Description,
				Brand:            item.Brand,
				Price:            item.Price,
				Stock:            item.Stock,
				WeightKg:         item.Weight,
				ImageURL:         item.ImageURL,
				Category:         item.Category,
				Subcategory:      item.Subcategory,
				Installments:     item.Installments,
				InstallmentPrice: item.InstallmentPrice,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to import products", err.Error())
	}
	oplog(c, "product.import", fmt.Sprintf("imported products: %d created, %d updated", created, updated))
	return ok(c, map[string]interface{}{"created": created, "updated": updated})
}

func updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	p.Description = payload.Description
	p.Brand = payload.Brand
	p.Price = payload.Price
	if payload.Stock != nil {
		p.Stock = *payload.Stock
	}
	p.WeightKg = payload.WeightKg
	p.ImageURL = strings.TrimSpace(payload.ImageURL)
	p.Category = payload.Category
	p.Subcategory = payload.Subcategory
	p.Installments = payload.Installments
	p.InstallmentPrice = payload.InstallmentPrice
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	oplog(c, "product.update", "updated product "+p.Description)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	oplog(c, "product.delete", "deleted product")
	return ok(c, map[string]interface{}{"id": id})
}

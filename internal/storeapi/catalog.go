package storeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vetsoftlabs/vetstore/internal/catalog"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/store/products", browseProducts)
	webserver.PubGET("/store/products/:id", getStoreProduct)
}

type browseResult struct {
	Products   []catalog.Product `json:"products"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	PageLabels []string          `json:"page_labels"`
	Brands     []string          `json:"brands"`
	Weights    []string          `json:"weights"`
}

// browseProducts runs the storefront pipeline: load, filter, sort,
// paginate. Brand/weight facets are derived from the category subset so
// the filter panel resets when the subcategory changes.
func browseProducts(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	subcategory := strings.TrimSpace(c.QueryParam("subcategory"))
	if category == "" || subcategory == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "category and subcategory are required", nil)
	}

	sel := catalog.Selection{}
	if brands := strings.TrimSpace(c.QueryParam("brands")); brands != "" {
		sel.Brands = strings.Split(brands, ",")
	}
	if weights := strings.TrimSpace(c.QueryParam("weights")); weights != "" {
		sel.Weights = strings.Split(weights, ",")
	}

	order := strings.TrimSpace(c.QueryParam("order"))
	if order != "" && !catalog.ValidOrder(order) {
		return fail(c, http.StatusBadRequest, "INVALID_ORDER",
			"order must be price-asc, price-desc, name-asc or name-desc", nil)
	}

	var rows []domain.Product
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load catalog", err.Error())
	}
	products := catalog.FromRows(rows)
	GetApp(c).Catalog().Reload(products)

	// Facets come from the unfiltered category subset.
	categorySubset := catalog.Filter(products, category, subcategory, catalog.Selection{})
	filtered := catalog.Filter(products, category, subcategory, sel)
	if order != "" {
		filtered = catalog.Sort(filtered, order)
	}

	pageSize := GetApp(c).Config().Clinic.CatalogPage
	if ps := GetApp(c).GetSettingsInt64Value("store", "catalog_page_size"); ps > 0 {
		pageSize = int(ps)
	}
	totalPages := catalog.TotalPages(len(filtered), pageSize)

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		if p < 1 || p > totalPages {
			return fail(c, http.StatusBadRequest, "INVALID_PAGE", "Page out of range", nil)
		}
		page = p
	}

	return ok(c, browseResult{
		Products:   catalog.Page(filtered, pageSize, page),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		PageLabels: catalog.PageLabels(totalPages, page),
		Brands:     catalog.Brands(categorySubset),
		Weights:    catalog.Weights(categorySubset),
	})
}

func getStoreProduct(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if p, hit := GetApp(c).Catalog().Get(id); hit {
		return ok(c, p)
	}
	var row domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, catalog.FromRow(row))
}

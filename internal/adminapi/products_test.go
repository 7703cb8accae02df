package adminapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vetsoftlabs/vetstore/internal/app"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.SysOprLog{}))

	a := app.NewApplication(nil)
	a.OverrideDB(db)

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.AppContextKey, a)
	return c, rec
}

func TestImportProductsCoercesLegacyPayload(t *testing.T) {
	payload := `[
		{"id": "1", "precio": "18500.50", "stock": "24", "descripcion": "Adult dog food",
		 "kg": "15", "marca": "Royal Canin", "imagen": "dog.jpg",
		 "categoria": "perro", "subcategoria": "alimento", "cuotas": "3", "precioCuotas": "6500"},
		{"id": 2, "precio": 9800, "stock": 30, "descripcion": "Adult cat food",
		 "kg": null, "marca": "Whiskas", "categoria": "gato", "subcategoria": "alimento"}
	]`
	c, rec := newTestContext(t, http.MethodPost, "/api/products/import", payload)
	require.NoError(t, importProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	db := GetDB(c)
	var rows []domain.Product
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 18500.50, rows[0].Price)
	assert.Equal(t, 24, rows[0].Stock)
	require.NotNil(t, rows[0].WeightKg)
	assert.Equal(t, 15.0, *rows[0].WeightKg)
	assert.Equal(t, 3, rows[0].Installments)
	assert.Nil(t, rows[1].WeightKg)
	assert.Equal(t, "Whiskas", rows[1].Brand)
}

func TestImportProductsUpdatesExistingRows(t *testing.T) {
	c, rec := newTestContext(t, http.MethodPost, "/api/products/import",
		`[{"id": 7, "precio": "5000", "stock": "10", "descripcion": "Flea shampoo", "marca": "Osspret", "categoria": "perro", "subcategoria": "higiene"}]`)
	require.NoError(t, importProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Re-import the same ID with a new price and stock.
	db := GetDB(c)
	req := httptest.NewRequest(http.MethodPost, "/api/products/import",
		strings.NewReader(`[{"id": 7, "precio": "5500", "stock": "4", "descripcion": "Flea shampoo", "marca": "Osspret", "categoria": "perro", "subcategoria": "higiene"}]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec2 := httptest.NewRecorder()
	c2 := c.Echo().NewContext(req, rec2)
	c2.Set(webserver.AppContextKey, c.Get(webserver.AppContextKey))
	require.NoError(t, importProducts(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var row domain.Product
	require.NoError(t, db.Where("id = ?", 7).First(&row).Error)
	assert.Equal(t, 5500.0, row.Price)
	assert.Equal(t, 4, row.Stock)

	var count int64
	db.Model(&domain.Product{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestImportProductsRejectsBadPayload(t *testing.T) {
	c, rec := newTestContext(t, http.MethodPost, "/api/products/import",
		`[{"id": 1, "precio": "not a number", "descripcion": "x", "marca": "y"}]`)
	require.NoError(t, importProducts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

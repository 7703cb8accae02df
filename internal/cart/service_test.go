package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vetsoftlabs/vetstore/internal/catalog"
	"github.com/vetsoftlabs/vetstore/internal/domain"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.Sale{}, &domain.SaleLine{}))

	require.NoError(t, db.Create(&domain.Product{
		ID: 1, Description: "Alimento 3kg", Price: 100, Stock: 2,
		Category: "perro", Subcategory: "alimento",
	}).Error)
	require.NoError(t, db.Create(&domain.Product{
		ID: 2, Description: "Pelota", Price: 40, Stock: 5,
		Category: "perro", Subcategory: "juguete",
	}).Error)

	gateway := NewPaymentClient("", "", time.Second)
	return NewService(db, catalog.NewCache(), gateway), db
}

func TestServiceOpenRefreshesMirror(t *testing.T) {
	svc, db := newTestService(t)

	ledger, err := svc.Open("cart-a")
	require.NoError(t, err)
	require.NoError(t, ledger.Add(1))

	// Stock changed server side; reopening recomputes the mirror.
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", 1).Update("stock", 1).Error)
	ledger, err = svc.Open("cart-a")
	require.NoError(t, err)
	stock, _ := ledger.MirroredStock(1)
	assert.Equal(t, 0, stock)
}

func TestServiceCheckout(t *testing.T) {
	svc, db := newTestService(t)

	ledger, err := svc.Open("cart-b")
	require.NoError(t, err)
	require.NoError(t, ledger.Add(1))
	require.NoError(t, ledger.Increment(1))
	require.NoError(t, ledger.Add(2))

	sale, err := svc.Checkout(context.Background(), "cart-b", 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), sale.ClientId)
	assert.Equal(t, 240.0, sale.Total)
	assert.Equal(t, domain.SalePendingPayment, sale.Status)
	assert.NotEmpty(t, sale.PaymentURL)
	require.Len(t, sale.Lines, 2)

	var p1 domain.Product
	require.NoError(t, db.First(&p1, 1).Error)
	assert.Equal(t, 0, p1.Stock)

	var lineCount int64
	require.NoError(t, db.Model(&domain.SaleLine{}).Where("sale_id = ?", sale.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(2), lineCount)

	assert.True(t, ledger.Empty())
}

func TestServiceCheckoutStockConflict(t *testing.T) {
	svc, db := newTestService(t)

	ledger, err := svc.Open("cart-c")
	require.NoError(t, err)
	require.NoError(t, ledger.Add(1))
	require.NoError(t, ledger.Increment(1))

	// A concurrent sale drained the stock between cart fill and checkout.
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", 1).Update("stock", 1).Error)

	_, err = svc.Checkout(context.Background(), "cart-c", 77)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStockConflict)

	// Nothing was decremented and no sale was written.
	var p1 domain.Product
	require.NoError(t, db.First(&p1, 1).Error)
	assert.Equal(t, 1, p1.Stock)
	var saleCount int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&saleCount).Error)
	assert.Equal(t, int64(0), saleCount)
}

func TestServiceCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Checkout(context.Background(), "never-opened", 77)
	assert.Error(t, err)
}

func TestServiceEvictIdle(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Open("cart-idle")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.EvictIdle(time.Hour))
	assert.Equal(t, 1, svc.EvictIdle(-time.Second))
	_, ok := svc.Get("cart-idle")
	assert.False(t, ok)
}

package cart

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/catalog"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

var ErrStockConflict = errors.New("cart: stock changed since cart was filled")

// Service owns the per-session ledgers and the checkout reconciliation.
// Ledgers live only in memory; an idle cart is evicted by the cleanup job
// and simply starts empty on next open.
type Service struct {
	db      *gorm.DB
	cache   *catalog.Cache
	gateway *PaymentClient

	mu    sync.Mutex
	carts map[string]*sessionCart
}

type sessionCart struct {
	ledger   *Ledger
	lastSeen time.Time
}

func NewService(db *gorm.DB, cache *catalog.Cache, gateway *PaymentClient) *Service {
	return &Service{
		db:      db,
		cache:   cache,
		gateway: gateway,
		carts:   map[string]*sessionCart{},
	}
}

// Open returns the ledger for a session, refreshing its product snapshot
// from the database. The mirrored stock is a cache of server truth and is
// invalidated on every cart open.
func (s *Service) Open(cartID string) (*Ledger, error) {
	var rows []domain.Product
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "cart: load products")
	}
	products := catalog.FromRows(rows)
	s.cache.Reload(products)

	s.mu.Lock()
	sc, ok := s.carts[cartID]
	if !ok {
		sc = &sessionCart{ledger: NewLedger()}
		s.carts[cartID] = sc
	}
	sc.lastSeen = time.Now()
	s.mu.Unlock()

	sc.ledger.Refresh(products)
	return sc.ledger, nil
}

// Get returns an already-open ledger without touching the database.
func (s *Service) Get(cartID string) (*Ledger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.carts[cartID]
	if !ok {
		return nil, false
	}
	sc.lastSeen = time.Now()
	return sc.ledger, true
}

// EvictIdle drops carts not touched for maxIdle and returns how many went.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sc := range s.carts {
		if sc.lastSeen.Before(cutoff) {
			delete(s.carts, id)
			n++
		}
	}
	return n
}

// Checkout turns the cart into a persisted sale. Stock is re-validated
// row by row inside the transaction: the ledger's mirror is optimistic
// and the database decides. On success the cart is cleared and the sale
// carries the payment redirect URL.
func (s *Service) Checkout(ctx context.Context, cartID string, clientID int64) (*domain.Sale, error) {
	ledger, ok := s.Get(cartID)
	if !ok || ledger.Empty() {
		return nil, errors.New("cart: nothing to check out")
	}

	lines := ledger.Lines()
	sale := &domain.Sale{
		ID:        common.UUIDint64(),
		ClientId:  clientID,
		Status:    domain.SalePendingPayment,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		for _, line := range lines {
			var row domain.Product
			if err := tx.Where("id = ?", line.Product.ID).First(&row).Error; err != nil {
				return errors.Wrapf(err, "cart: product %d vanished", line.Product.ID)
			}
			if row.Stock < line.Quantity {
				return errors.Wrapf(ErrStockConflict, "product %d has %d left, cart holds %d",
					row.ID, row.Stock, line.Quantity)
			}
			if err := tx.Model(&domain.Product{}).Where("id = ?", row.ID).
				Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
				return err
			}
			total += row.Price * float64(line.Quantity)
			sale.Lines = append(sale.Lines, domain.SaleLine{
				ID:        common.UUIDint64(),
				SaleId:    sale.ID,
				ProductId: row.ID,
				Quantity:  line.Quantity,
				UnitPrice: row.Price,
			})
		}
		sale.Total = total
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for i := range sale.Lines {
			if err := tx.Create(&sale.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payURL, err := s.gateway.CreatePaymentURL(sale)
	if err != nil {
		// The sale stays pending; payment can be retried from the admin panel.
		zap.L().Warn("checkout: payment gateway unavailable",
			zap.Int64("sale_id", sale.ID), zap.Error(err))
	} else {
		sale.PaymentURL = payURL
		if err := s.db.Model(&domain.Sale{}).Where("id = ?", sale.ID).
			Update("payment_url", payURL).Error; err != nil {
			zap.L().Error("checkout: failed to store payment url", zap.Error(err))
		}
	}

	ledger.Clear()
	return sale, nil
}

package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vetsoftlabs/vetstore/config"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	logLevel := gormlogger.Warn

	switch cfg.Type {
	case "sqlite":
		dsn := filepath.Join(workdir, "data", cfg.Name+".db")
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err != nil {
			panic(err)
		}
		return db
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err != nil {
			panic(err)
		}
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.SetMaxOpenConns(cfg.MaxConn)
			sqlDB.SetMaxIdleConns(cfg.IdleConn)
		}
		return db
	}
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "vetstore"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var account domain.SysAccount
	err := a.gormDB.Where("username = ?", superUsername).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysAccount{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "admin@vetstore.local",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     domain.AccountLevelSuper,
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	if account.Status != common.ENABLED || account.Level != domain.AccountLevelSuper {
		if err := a.gormDB.Model(&domain.SysAccount{}).Where("id = ?", account.ID).Updates(map[string]interface{}{
			"level":      domain.AccountLevelSuper,
			"status":     common.ENABLED,
			"updated_at": time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to repair super admin account", zap.Error(err))
			return
		}
		zap.L().Warn("repaired default super admin account", zap.String("username", superUsername))
	}
}

type configSchema struct {
	Key         string
	Default     string
	Description string
}

var configSchemas = []configSchema{
	{"clinic.open_hour", "8", "First bookable hour of the clinic day"},
	{"clinic.close_hour", "17", "Last bookable hour of the clinic day"},
	{"store.catalog_page_size", "8", "Products per storefront page"},
	{"store.cart_idle_minutes", "120", "Minutes before an idle cart is evicted"},
	{"notify.reminder_hour", "18", "Hour of day the reminder sweep runs"},
	{"notify.keep_days", "90", "Days to keep read notifications"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range configSchemas {
		category, name, ok := splitConfigKey(schema.Key)
		if !ok {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

func splitConfigKey(key string) (category, name string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], i > 0 && i < len(key)-1
		}
	}
	return "", "", false
}

// checkProducts seeds a starter catalog so a fresh install renders a
// non-empty storefront.
func (a *Application) checkProducts() {
	kg := func(v float64) *float64 { return &v }
	defaultProducts := []domain.Product{
		{Description: "Adult dog food", Brand: "Royal Canin", Price: 18500, Stock: 24, WeightKg: kg(15), Category: "perro", Subcategory: "alimento", Installments: 3, InstallmentPrice: 6500},
		{Description: "Puppy dog food", Brand: "Eukanuba", Price: 16200, Stock: 18, WeightKg: kg(7.5), Category: "perro", Subcategory: "alimento"},
		{Description: "Adult cat food", Brand: "Whiskas", Price: 9800, Stock: 30, WeightKg: kg(3), Category: "gato", Subcategory: "alimento"},
		{Description: "Rubber bone toy", Brand: "Kong", Price: 4500, Stock: 40, Category: "perro", Subcategory: "juguete"},
		{Description: "Cat scratcher tower", Brand: "Catit", Price: 21000, Stock: 6, Category: "gato", Subcategory: "accesorio"},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).
			Where("description = ? AND brand = ?", p.Description, p.Brand).
			Count(&count)
		if count == 0 {
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("description", p.Description), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("description", p.Description))
			}
		}
	}
}

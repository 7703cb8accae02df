package app

import (
	"context"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/config"
	"github.com/vetsoftlabs/vetstore/internal/booking"
	"github.com/vetsoftlabs/vetstore/internal/cart"
	"github.com/vetsoftlabs/vetstore/internal/catalog"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/notify"
	"github.com/vetsoftlabs/vetstore/pkg/metrics"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	sched         *cron.Cron
	configManager *ConfigManager

	catalogCache *catalog.Cache
	cartService  *cart.Service
	bookingGen   *booking.Generator
	notifyHub    *notify.Hub
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SettingsProvider  = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	if err = metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.System.Workdir)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	// wait for database initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.checkSuper()
		a.checkSettings()
		a.checkProducts()
	}()

	a.configManager = NewConfigManager(a)

	a.initServices()
	a.initJob()
}

// initServices wires the storefront services onto the shared DB handle.
func (a *Application) initServices() {
	var mailer *notify.Mailer
	if a.appConfig.Smtp.Enabled {
		mailer = notify.NewMailer(
			a.appConfig.Smtp.Host,
			a.appConfig.Smtp.Port,
			a.appConfig.Smtp.Username,
			a.appConfig.Smtp.Password,
			a.appConfig.Smtp.From,
		)
	}
	a.notifyHub = notify.NewHub(a.gormDB, mailer)

	a.catalogCache = catalog.NewCache()
	gateway := cart.NewPaymentClient(
		a.appConfig.Payment.GatewayURL,
		a.appConfig.Payment.ApiKey,
		time.Duration(a.appConfig.Payment.Timeout)*time.Second,
	)
	a.cartService = cart.NewService(a.gormDB, a.catalogCache, gateway)

	open, closeh := a.ClinicHours()
	a.bookingGen = booking.NewGenerator(open, closeh, &booking.GormOccupiedSource{DB: a.gormDB})
}

// ClinicHours returns the operating window, preferring runtime settings
// over the static configuration file.
func (a *Application) ClinicHours() (int, int) {
	open := a.appConfig.Clinic.OpenHour
	closeh := a.appConfig.Clinic.CloseHour
	if a.configManager != nil {
		var cs clinicSettings
		if err := a.configManager.Decode("clinic", &cs); err != nil {
			zap.L().Error("clinic settings decode failed", zap.Error(err))
			return open, closeh
		}
		if cs.OpenHour > 0 {
			open = cs.OpenHour
		}
		if cs.CloseHour > 0 {
			closeh = cs.CloseHour
		}
	}
	return open, closeh
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Catalog() *catalog.Cache {
	return a.catalogCache
}

func (a *Application) Cart() *cart.Service {
	return a.cartService
}

func (a *Application) Booking() *booking.Generator {
	return a.bookingGen
}

func (a *Application) Notify() *notify.Hub {
	return a.notifyHub
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// StartBackgroundJobs starts the periodic job runners.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	go func() {
		<-ctx.Done()
		a.Release()
	}()
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.notifyHub != nil {
		a.notifyHub.Wait()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}

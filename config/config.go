package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	JwtSecret     string `yaml:"jwt_secret"`
	SessionSecret string `yaml:"session_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type PaymentConfig struct {
	GatewayURL string `yaml:"gateway_url"`
	ApiKey     string `yaml:"api_key"`
	Timeout    int    `yaml:"timeout"`
}

type ClinicConfig struct {
	OpenHour    int `yaml:"open_hour"`
	CloseHour   int `yaml:"close_hour"`
	CatalogPage int `yaml:"catalog_page"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SystemConfig  `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Smtp     SmtpConfig    `yaml:"smtp"`
	Payment  PaymentConfig `yaml:"payment"`
	Clinic   ClinicConfig  `yaml:"clinic"`
	Logger   LogConfig     `yaml:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "vetstore",
		Location: "America/Argentina/Buenos_Aires",
		Workdir:  "/var/vetstore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1816,
		JwtSecret:     "9b6de5cc-vetstore-0cc9-11ec-88fd",
		SessionSecret: "vetstore-session-secret",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "vetstore",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Smtp: SmtpConfig{
		Enabled: false,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "no-reply@vetstore.local",
	},
	Payment: PaymentConfig{
		GatewayURL: "",
		Timeout:    10,
	},
	Clinic: ClinicConfig{
		OpenHour:    8,
		CloseHour:   17,
		CatalogPage: 8,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/vetstore/vetstore.log",
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig loads the yaml configuration file and applies VETSTORE_*
// environment overrides on top of it. A missing file yields defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("VETSTORE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("VETSTORE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("VETSTORE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("VETSTORE_WEB_PORT", &cfg.Web.Port)
	setEnvValue("VETSTORE_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvValue("VETSTORE_WEB_SESSION_SECRET", &cfg.Web.SessionSecret)

	setEnvValue("VETSTORE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("VETSTORE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("VETSTORE_DB_PORT", &cfg.Database.Port)
	setEnvValue("VETSTORE_DB_NAME", &cfg.Database.Name)
	setEnvValue("VETSTORE_DB_USER", &cfg.Database.User)
	setEnvValue("VETSTORE_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("VETSTORE_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("VETSTORE_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("VETSTORE_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("VETSTORE_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvBoolValue("VETSTORE_SMTP_ENABLED", &cfg.Smtp.Enabled)

	setEnvValue("VETSTORE_PAYMENT_GATEWAY_URL", &cfg.Payment.GatewayURL)
	setEnvValue("VETSTORE_PAYMENT_API_KEY", &cfg.Payment.ApiKey)

	return cfg
}

// WriteDefaultConfig writes the default configuration to cfile.
func WriteDefaultConfig(cfile string) error {
	data, err := yaml.Marshal(DefaultAppConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(cfile, data, 0644)
}

// InitDirs creates the runtime directory layout under workdir.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}

package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Port                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// AdminConfig holds the single configured back-office credential.
	// User management proper lives outside this service.
	AdminConfig struct {
		Username     string
		PasswordHash string // bcrypt
	}

	// BillingConfig drives the due computation. The surcharge is a flat
	// amount applied once the cutoff date has passed; enrollments count
	// towards a student's dues while their status equals ActiveStatus.
	BillingConfig struct {
		Currency        string
		SurchargeAmount float64
		SurchargeCutoff time.Time
		ActiveStatus    string
	}

	// CheckoutConfig holds the Mercado Pago handoff settings.
	CheckoutConfig struct {
		AccessToken string
		BaseURL     string // gateway API base, e.g. https://api.mercadopago.com
		BackBaseURL string // public base for the success/failure/pending back-urls
		Timeout     time.Duration
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		AppName  string
		Build    string

		SecretKey        string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		WorkDir          string

		Server   ServerConfig
		Database DatabaseConfig
		Admin    AdminConfig
		Billing  BillingConfig
		Checkout CheckoutConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads configuration from config/.env.<env> (if present) and the
// environment, applying defaults. It is built once in main and passed into
// services explicitly so tests can inject fixed dates and amounts.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "AlmaPaid")
	v.SetDefault("secretKey", "h2(h!x)#*c2(#yg4h^$cegm2emypoq5-wer)enb$+57=dz&uox")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("jwtExpirationDelta", 4*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 7*24*time.Hour)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "almapaid")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("adminUsername", "admin")

	v.SetDefault("billingCurrency", "ARS")
	v.SetDefault("billingSurchargeAmount", 2000.0)
	v.SetDefault("billingSurchargeCutoff", "2025-06-10")
	v.SetDefault("billingActiveStatus", "activo")

	v.SetDefault("checkoutBaseURL", "https://api.mercadopago.com")
	v.SetDefault("checkoutTimeout", 5*time.Second)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	cutoff, err := time.Parse("2006-01-02", v.GetString("billingSurchargeCutoff"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing billingSurchargeCutoff")
	}

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		WorkDir:          wd,
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetString("serverPort"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Admin: AdminConfig{
			Username:     v.GetString("adminUsername"),
			PasswordHash: v.GetString("adminPasswordHash"),
		},
		Billing: BillingConfig{
			Currency:        v.GetString("billingCurrency"),
			SurchargeAmount: v.GetFloat64("billingSurchargeAmount"),
			SurchargeCutoff: cutoff,
			ActiveStatus:    v.GetString("billingActiveStatus"),
		},
		Checkout: CheckoutConfig{
			AccessToken: v.GetString("mpAccessToken"),
			BaseURL:     strings.TrimRight(v.GetString("checkoutBaseURL"), "/"),
			BackBaseURL: strings.TrimRight(v.GetString("baseURL"), "/"),
			Timeout:     v.GetDuration("checkoutTimeout"),
		},
	}
	return conf, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgconfig "github.com/Skotchmaster/storefront/pkg/config"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
	Port        int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	CartEventsTopic string   `env:"CART_EVENTS_TOPIC" envDefault:"cart_events"`

	FreeShippingThreshold decimal.Decimal `env:"FREE_SHIPPING_THRESHOLD" envDefault:"50"`
	ShippingFee           decimal.Decimal `env:"SHIPPING_FEE" envDefault:"10"`
	TaxRate               decimal.Decimal `env:"TAX_RATE" envDefault:"0.10"`
	MaxQuantityPerItem    int             `env:"MAX_QUANTITY_PER_ITEM" envDefault:"0"`
}

// Load reads the process environment (and an optional .env) into Config.
func Load(envFiles ...string) (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(&cfg, envFiles...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d out of range", c.Port))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.FreeShippingThreshold.IsNegative() {
		errs = append(errs, errors.New("FREE_SHIPPING_THRESHOLD must not be negative"))
	}
	if c.ShippingFee.IsNegative() {
		errs = append(errs, errors.New("SHIPPING_FEE must not be negative"))
	}
	if c.TaxRate.IsNegative() {
		errs = append(errs, errors.New("TAX_RATE must not be negative"))
	}
	if c.MaxQuantityPerItem < 0 {
		errs = append(errs, errors.New("MAX_QUANTITY_PER_ITEM must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pricing"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Auth       AuthConfig       `yaml:"auth"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Events     EventsConfig     `yaml:"events"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"ginMode"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN string `yaml:"dsn"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error, fatal, panic
	Path  string `yaml:"path"`  // empty means stdout
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwtSecret"`
	AdminPasscode string        `yaml:"adminPasscode"`
	TokenTTL      time.Duration `yaml:"tokenTTL"`
	OTPTTL        time.Duration `yaml:"otpTTL"`
	ExposeOTP     bool          `yaml:"exposeOtp"`
}

type PricingConfig struct {
	AddonSurcharge string `yaml:"addonSurcharge"`
	TaxRate        string `yaml:"taxRate"`
}

type EventsConfig struct {
	Broker   string   `yaml:"broker"` // log, rabbitmq or kafka
	URL      string   `yaml:"url"`
	Exchange string   `yaml:"exchange"`
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
}

type RestaurantConfig struct {
	Name     string `yaml:"name" json:"restaurantName"`
	Location string `yaml:"location" json:"location"`
	Phone    string `yaml:"phone" json:"phone"`
	Email    string `yaml:"email" json:"email"`
	VideoURL string `yaml:"videoUrl" json:"youtubeVideoUrl"`
}

func Default() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", GinMode: "debug"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "restaurant.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		Logging:  LoggingConfig{Level: "info"},
		Auth: AuthConfig{
			JWTSecret:     "restaurant_ordering_dev_secret",
			AdminPasscode: "RBKGSB",
			TokenTTL:      24 * time.Hour,
			OTPTTL:        5 * time.Minute,
		},
		Pricing: PricingConfig{AddonSurcharge: "2.00", TaxRate: "0.08"},
		Events:  EventsConfig{Broker: "log", Exchange: "restaurant_events", Topic: "restaurant-events"},
		Restaurant: RestaurantConfig{
			Name:     "Taste of π",
			Location: "123 Italian Way, Little Italy, NY 10013",
			Phone:    "(555) 123-PIZZA",
			Email:    "info@tasteofpi.com",
		},
	}
}

// Load reads the YAML file at path on top of Default, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env is optional in every environment
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Path = getEnv("LOG_PATH", c.Logging.Path)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.AdminPasscode = getEnv("ADMIN_PASSCODE", c.Auth.AdminPasscode)
	c.Events.Broker = getEnv("EVENTS_BROKER", c.Events.Broker)
	c.Events.URL = getEnv("EVENTS_URL", c.Events.URL)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Events.Brokers = strings.Split(brokers, ",")
	}
	c.Restaurant.VideoURL = getEnv("YOUTUBE_VIDEO_URL", c.Restaurant.VideoURL)
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn: must be set")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret: must be set")
	}
	if c.Auth.AdminPasscode == "" {
		return errors.New("auth.adminPasscode: must be set")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.OTPTTL <= 0 {
		return errors.New("auth: tokenTTL and otpTTL must be > 0")
	}
	if _, err := c.Pricing.Rules(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	switch c.Events.Broker {
	case "log":
	case "rabbitmq":
		if c.Events.URL == "" {
			return errors.New("events.url: required for rabbitmq")
		}
	case "kafka":
		if len(c.Events.Brokers) == 0 || c.Events.Topic == "" {
			return errors.New("events: kafka needs brokers and topic")
		}
	default:
		return fmt.Errorf("events.broker: unknown broker %q", c.Events.Broker)
	}
	return nil
}

// Rules converts the configured constants into pricing rules.
func (p PricingConfig) Rules() (pricing.Rules, error) {
	surcharge, err := models.ParseMoney(p.AddonSurcharge)
	if err != nil {
		return pricing.Rules{}, fmt.Errorf("addonSurcharge: %w", err)
	}
	rate, err := decimal.NewFromString(p.TaxRate)
	if err != nil {
		return pricing.Rules{}, fmt.Errorf("taxRate: %w", err)
	}
	rules := pricing.Rules{AddonSurcharge: surcharge, TaxRate: rate}
	if err := rules.Validate(); err != nil {
		return pricing.Rules{}, err
	}
	return rules, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
	DriverMemory   = "memory"
)

type Postgres struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// DSN renders the libpq keyword/value connection string.
func (p Postgres) DSN() string {
	parts := []string{
		"user=" + p.User,
		"password=" + p.Password,
		"dbname=" + p.Name,
		"port=" + p.Port,
		"sslmode=" + p.SSLMode,
	}
	if p.Host != "" {
		parts = append(parts, "host="+p.Host)
	}
	return strings.Join(parts, " ")
}

type Consul struct {
	Enabled     bool
	Address     string
	ServiceID   string
	ServiceName string
	// AdvertiseAddr is the host consul uses to health-check the gRPC port.
	AdvertiseAddr string
}

type Config struct {
	GRPCPort        int
	HTTPPort        int
	ShutdownTimeout time.Duration

	StoreDriver string
	Postgres    Postgres

	RequireApproval      bool
	LockPublishedContent bool
	PageSize             int
	PublicPageSize       int

	TokenSecret string
	TokenIssuer string

	KafkaBrokers []string
	KafkaTopic   string

	Consul Consul

	LogLevel  string
	LogFormat string
}

// New returns a viper instance reading the process environment with every
// default set. A missing .env file is not an error.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("grpc_port", 9096)
	v.SetDefault("http_port", 8080)
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("store_driver", DriverPostgres)
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("require_approval", true)
	v.SetDefault("lock_published_content", true)
	v.SetDefault("page_size", 10)
	v.SetDefault("public_page_size", 12)
	v.SetDefault("token_issuer", "notes-moderation")
	v.SetDefault("kafka_topic", "notes.moderation")
	v.SetDefault("consul_enabled", false)
	v.SetDefault("consul_service_id", "notes-grpc")
	v.SetDefault("consul_service_name", "notes-grpc-service")
	v.SetDefault("consul_advertise_addr", "localhost")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	return v
}

var errNoTokenSecret = errors.New("ACCESS_TOKEN_SECRET (or JWT_SECRET) is required")

func tokenSecret(v *viper.Viper) string {
	if secret := v.GetString("access_token_secret"); secret != "" {
		return secret
	}
	return v.GetString("jwt_secret")
}

// LoadToken reads only the token settings, for commands that sign tokens
// without running the servers.
func LoadToken(v *viper.Viper) (secret, issuer string, err error) {
	secret = tokenSecret(v)
	if secret == "" {
		return "", "", errNoTokenSecret
	}
	return secret, v.GetString("token_issuer"), nil
}

func Load(v *viper.Viper) (Config, error) {
	secret := tokenSecret(v)

	cfg := Config{
		GRPCPort:        v.GetInt("grpc_port"),
		HTTPPort:        v.GetInt("http_port"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		StoreDriver:     strings.ToLower(v.GetString("store_driver")),
		Postgres: Postgres{
			User:     v.GetString("postgres_user"),
			Password: v.GetString("postgres_password"),
			Name:     v.GetString("postgres_name"),
			Host:     v.GetString("postgres_host"),
			Port:     v.GetString("postgres_port"),
			SSLMode:  v.GetString("postgres_sslmode"),
		},
		RequireApproval:      v.GetBool("require_approval"),
		LockPublishedContent: v.GetBool("lock_published_content"),
		PageSize:             v.GetInt("page_size"),
		PublicPageSize:       v.GetInt("public_page_size"),
		TokenSecret:          secret,
		TokenIssuer:          v.GetString("token_issuer"),
		KafkaBrokers:         splitList(v.GetString("kafka_brokers")),
		KafkaTopic:           v.GetString("kafka_topic"),
		Consul: Consul{
			Enabled:       v.GetBool("consul_enabled"),
			Address:       v.GetString("consul_http_addr"),
			ServiceID:     v.GetString("consul_service_id"),
			ServiceName:   v.GetString("consul_service_name"),
			AdvertiseAddr: v.GetString("consul_advertise_addr"),
		},
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverPostgres, DriverGorm:
		if c.Postgres.User == "" || c.Postgres.Name == "" {
			errs = append(errs, errors.New("POSTGRES_USER and POSTGRES_NAME are required for the sql stores"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.GRPCPort <= 0 || c.HTTPPort <= 0 {
		errs = append(errs, errors.New("ports must be positive"))
	}
	if c.PageSize <= 0 || c.PublicPageSize <= 0 {
		errs = append(errs, errors.New("page sizes must be positive"))
	}
	if c.TokenSecret == "" {
		errs = append(errs, errNoTokenSecret)
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultJWTSecret solo sirve para desarrollo
const DefaultJWTSecret = "default-secret-change-in-production"

// Config contiene la configuración de la aplicación
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Cache    CacheConfig    `koanf:"cache"`
	RabbitMQ RabbitMQConfig `koanf:"rabbitmq"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig es la configuración del servidor HTTP
type ServerConfig struct {
	Port            string        `koanf:"port"`
	Environment     string        `koanf:"environment"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigin      string        `koanf:"cors_origin"`
}

// DatabaseConfig es la conexión a MySQL
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN arma el Data Source Name para el driver de MySQL
// Formato: usuario:password@tcp(host:puerto)/base_de_datos?opciones
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// SeedUser es una credencial que se crea al arrancar si no existe
type SeedUser struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Role     string `koanf:"role"`
}

// AuthConfig es la configuración de tokens y roles
type AuthConfig struct {
	JWTSecret    string        `koanf:"jwt_secret"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	BcryptCost   int           `koanf:"bcrypt_cost"`
	EnforceRoles bool          `koanf:"enforce_roles"`
	SeedUsers    []SeedUser    `koanf:"seed_users"`
}

// CacheConfig es el caché de dos niveles del ranking (ccache + Memcached)
type CacheConfig struct {
	Enabled       bool          `koanf:"enabled"`
	MemcachedHost string        `koanf:"memcached_host"`
	LocalMaxSize  int64         `koanf:"local_max_size"`
	LocalTTL      time.Duration `koanf:"local_ttl"`
	RemoteTTL     time.Duration `koanf:"remote_ttl"`
}

// RabbitMQConfig es la cola de eventos de reservas y calificaciones
type RabbitMQConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Queue   string `koanf:"queue"`
}

// LoggingConfig es la configuración de zerolog
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction indica si corremos en producción
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate revisa que la configuración sea usable
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		errs = append(errs, errors.New("database.host and database.name are required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.IsProduction() && c.Auth.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be changed in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	for i, u := range c.Auth.SeedUsers {
		if u.Username == "" || u.Password == "" {
			errs = append(errs, fmt.Errorf("auth.seed_users[%d]: username and password are required", i))
		}
		switch u.Role {
		case "admin", "host", "guest":
		default:
			errs = append(errs, fmt.Errorf("auth.seed_users[%d]: unknown role %q", i, u.Role))
		}
	}
	if c.Cache.Enabled && c.Cache.LocalMaxSize <= 0 {
		errs = append(errs, errors.New("cache.local_max_size must be positive"))
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		errs = append(errs, errors.New("rabbitmq.url is required when rabbitmq is enabled"))
	}

	return errors.Join(errs...)
}

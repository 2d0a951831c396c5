package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Drivers de almacenamiento soportados.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	DB        DBConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // zona horaria para interpretar fechas de calendario (YYYY-MM-DD)
	Locale   string // BCP 47; define el orden alfabético de los listados
	LogLevel string
}

// Location resuelve la zona horaria configurada; UTC si está vacía.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Language etiqueta de idioma para ordenar nombres; language.Und si APP_LOCALE no es válido.
func (c AppConfig) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// StorageConfig selecciona el backend de persistencia.
type StorageConfig struct {
	Driver string // postgres, mongo, memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MongoConfig configuración de MongoDB (STORAGE_DRIVER=mongo).
type MongoConfig struct {
	URI    string
	DBName string
}

// RedisConfig almacén de claves de idempotencia. Addr vacío = memoria local del proceso.
type RedisConfig struct {
	Addr                  string
	Password              string
	DB                    int
	IdempotencyTTLMinutes int
}

// IdempotencyTTL duración de las claves de idempotencia.
func (c RedisConfig) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLMinutes) * time.Minute
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host                 string
	Port                 int
	CORSOrigins          string
	LoginRateLimitPerMin int
	BodyLimitBytes       int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InventoryConfig parámetros de negocio del almacén.
type InventoryConfig struct {
	LowCoverageDays int // umbral de alerta de cobertura (días con dos líneas)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "magacin-api"),
			Timezone: getString(v, "APP_TIMEZONE", "Europe/Belgrade"),
			Locale:   getString(v, "APP_LOCALE", "sr-Latn"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", DriverPostgres)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "magacin"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		Mongo: MongoConfig{
			URI:    getString(v, "MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getString(v, "MONGODB_DB_NAME", "magacin"),
		},
		Redis: RedisConfig{
			Addr:                  getString(v, "REDIS_ADDR", ""),
			Password:              getString(v, "REDIS_PASSWORD", ""),
			DB:                    getInt(v, "REDIS_DB", 0),
			IdempotencyTTLMinutes: getInt(v, "IDEMPOTENCY_TTL_MINUTES", 60*24),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*12),
			Issuer:     getString(v, "JWT_ISSUER", "magacin-api"),
		},
		HTTP: HTTPConfig{
			Host:                 getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:                 getInt(v, "HTTP_PORT", 8080),
			CORSOrigins:          getString(v, "CORS_ORIGINS", "*"),
			LoginRateLimitPerMin: getInt(v, "LOGIN_RATE_LIMIT_PER_MINUTE", 10),
			BodyLimitBytes:       getInt(v, "HTTP_BODY_LIMIT_BYTES", 4*1024*1024),
		},
		Inventory: InventoryConfig{
			LowCoverageDays: getInt(v, "LOW_COVERAGE_DAYS", 7),
		},
	}
}

// Validate comprueba los valores mínimos para arrancar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	switch c.Storage.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER desconocido %q (postgres, mongo, memory)", c.Storage.Driver)
	}
	if c.Inventory.LowCoverageDays < 0 {
		return fmt.Errorf("config: LOW_COVERAGE_DAYS no puede ser negativo")
	}
	if _, err := c.App.Location(); err != nil {
		return err
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// HTTPAddr is the fixed listening address of the service
const HTTPAddr = ":3000"

// Config holds all configuration
type Config struct {
	MySQL         MySQLConfig
	Redis         RedisConfig
	Auth          AuthConfig
	DNS           DNSConfig
	Log           LogConfig
	TTL           int
	CIDRMinPrefix int
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration for the PTR lookup cache.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	CacheTTLSec int
}

// AuthConfig holds the static Basic credentials
type AuthConfig struct {
	User         string
	Password     string
	PasswordHash string // bcrypt; takes precedence over Password
}

// DNSConfig holds reverse resolver configuration
type DNSConfig struct {
	Resolver    string // "net" or "miekg"
	Server      string
	TimeoutSec  int
	Concurrency int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASS", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			CacheTTLSec: getEnvInt("PTR_CACHE_TTL_SEC", 300),
		},
		Auth: AuthConfig{
			User:         os.Getenv("BASIC_USER"),
			Password:     os.Getenv("BASIC_PASS"),
			PasswordHash: os.Getenv("BASIC_PASS_HASH"),
		},
		DNS: DNSConfig{
			Resolver:    getEnv("DNS_RESOLVER", "net"),
			Server:      getEnv("DNS_SERVER", ""),
			TimeoutSec:  getEnvInt("DNS_TIMEOUT_SEC", 4),
			Concurrency: getEnvInt("DNS_LOOKUP_CONCURRENCY", 1),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		TTL:           getEnvInt("TTL", 3600),
		CIDRMinPrefix: getEnvInt("CIDR_MIN_PREFIX", 16),
	}

	if cfg.MySQL.DSN == "" {
		cfg.MySQL.DSN = buildDSN(
			getEnv("DB_HOST", ""),
			getEnv("DB_PORT", "3306"),
			getEnv("DB_USER", ""),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", ""),
		)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:        getValue("REDIS_ADDR", "redis", "addr", ""),
			Password:    getValue("REDIS_PASS", "redis", "pass", ""),
			DB:          getValueInt("REDIS_DB", "redis", "db", 0),
			CacheTTLSec: getValueInt("PTR_CACHE_TTL_SEC", "redis", "cache_ttl_sec", 300),
		},
		Auth: AuthConfig{
			User:         getValue("BASIC_USER", "auth", "user", ""),
			Password:     getValue("BASIC_PASS", "auth", "pass", ""),
			PasswordHash: getValue("BASIC_PASS_HASH", "auth", "pass_hash", ""),
		},
		DNS: DNSConfig{
			Resolver:    getValue("DNS_RESOLVER", "dns", "resolver", "net"),
			Server:      getValue("DNS_SERVER", "dns", "server", ""),
			TimeoutSec:  getValueInt("DNS_TIMEOUT_SEC", "dns", "timeout_sec", 4),
			Concurrency: getValueInt("DNS_LOOKUP_CONCURRENCY", "dns", "concurrency", 1),
		},
		Log: LogConfig{
			Level:  getValue("LOG_LEVEL", "log", "level", "info"),
			Format: getValue("LOG_FORMAT", "log", "format", "text"),
		},
		TTL:           getValueInt("TTL", "records", "ttl", 3600),
		CIDRMinPrefix: getValueInt("CIDR_MIN_PREFIX", "records", "cidr_min_prefix", 16),
	}

	if cfg.MySQL.DSN == "" {
		cfg.MySQL.DSN = buildDSN(
			getValue("DB_HOST", "mysql", "host", ""),
			getValue("DB_PORT", "mysql", "port", "3306"),
			getValue("DB_USER", "mysql", "user", ""),
			getValue("DB_PASSWORD", "mysql", "password", ""),
			getValue("DB_NAME", "mysql", "database", ""),
		)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildDSN assembles a MySQL DSN from discrete settings. Returns "" when host or
// database name is missing.
func buildDSN(host, port, user, password, name string) string {
	if host == "" || name == "" {
		return ""
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = host + ":" + port
	mc.User = user
	mc.Passwd = password
	mc.DBName = name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func (c *Config) validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("MYSQL_DSN (or DB_HOST and DB_NAME) is required")
	}
	if c.Auth.User == "" {
		return fmt.Errorf("BASIC_USER is required")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return fmt.Errorf("BASIC_PASS or BASIC_PASS_HASH is required")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("TTL must be a positive integer, got %d", c.TTL)
	}
	switch c.DNS.Resolver {
	case "net", "miekg":
	default:
		return fmt.Errorf("DNS_RESOLVER must be \"net\" or \"miekg\", got %q", c.DNS.Resolver)
	}
	if c.DNS.Resolver == "miekg" && c.DNS.Server == "" {
		return fmt.Errorf("DNS_SERVER is required when DNS_RESOLVER=miekg")
	}
	if c.CIDRMinPrefix < 0 || c.CIDRMinPrefix > 32 {
		return fmt.Errorf("CIDR_MIN_PREFIX must be between 0 and 32, got %d", c.CIDRMinPrefix)
	}
	return nil
}

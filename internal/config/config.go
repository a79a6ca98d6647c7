package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StorageConfig struct {
	Driver   string       `yaml:"driver"` // sqlite | redis
	Key      string       `yaml:"key"`
	SeedFile string       `yaml:"seed_file"` // optional YAML seed, built-in records otherwise
	SQLite   SQLiteConfig `yaml:"sqlite"`
	Redis    RedisConfig  `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Documents int `yaml:"documents"` // decoded documents kept in memory, 0 disables
}

type AssetsConfig struct {
	Root             string `yaml:"root"`
	PlaceholderImage string `yaml:"placeholder_image"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         6541,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Key:    "cinelist_movies",
			SQLite: SQLiteConfig{
				Path: "data/cinelist.db",
			},
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Cache: CacheConfig{
			Documents: 8,
		},
		Assets: AssetsConfig{
			Root:             ".",
			PlaceholderImage: "https://via.placeholder.com/300x400?text=Movie",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies a .env
// file and CINELIST_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "CINELIST_HOST")
	if err := setInt(&c.Server.Port, "CINELIST_PORT"); err != nil {
		return err
	}

	setString(&c.Storage.Driver, "CINELIST_STORAGE_DRIVER")
	setString(&c.Storage.Key, "CINELIST_STORAGE_KEY")
	setString(&c.Storage.SeedFile, "CINELIST_SEED_FILE")
	setString(&c.Storage.SQLite.Path, "CINELIST_SQLITE_PATH")
	setString(&c.Storage.Redis.Addr, "CINELIST_REDIS_ADDR")
	setString(&c.Storage.Redis.Password, "CINELIST_REDIS_PASSWORD")
	if err := setInt(&c.Storage.Redis.DB, "CINELIST_REDIS_DB"); err != nil {
		return err
	}

	setString(&c.Assets.Root, "CINELIST_ASSETS_ROOT")
	setString(&c.Logging.Level, "CINELIST_LOG_LEVEL")

	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required for the %s driver", DriverSQLite)
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the %s driver", DriverRedis)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Cache.Documents < 0 {
		return fmt.Errorf("cache.documents must not be negative")
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

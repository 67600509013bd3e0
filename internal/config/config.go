package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults de puertos, issuer y TTL (2 días).
const (
	DefaultHTTPPort    = 8080
	DefaultGraphQLPort = 4000
	DefaultIssuer      = "https://github.com/dipyamanroy"
	DefaultTokenTTL    = 48 * time.Hour
)

type Config struct {
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		HTTPPort    int    `yaml:"http_port"`
		GraphQLPort int    `yaml:"graphql_port"`
		PublicDir   string `yaml:"public_dir"`
		// AssetDirs monta directorios extra: prefijo URL -> lista de dirs (en orden).
		AssetDirs   map[string][]string `yaml:"asset_dirs"`
		APIDocsDir  string              `yaml:"api_docs_dir"`
		ReadTimeout time.Duration       `yaml:"read_timeout"`
	} `yaml:"server"`

	JWT struct {
		Secret    string        `yaml:"secret"`
		Issuer    string        `yaml:"issuer"`
		TTL       time.Duration `yaml:"ttl"`
		AllowNone bool          `yaml:"allow_none"`
	} `yaml:"jwt"`

	Storage struct {
		Driver string `yaml:"driver"` // memory | postgres
		DSN    string `yaml:"dsn"`
		Seed   bool   `yaml:"seed"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		// TrustProxy usa X-Forwarded-For como IP del cliente (solo detrás de un proxy).
		TrustProxy bool `yaml:"trust_proxy"`
		Login      struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Logs struct {
		Dir string `yaml:"dir"`
	} `yaml:"logs"`

	Upload struct {
		Dir      string `yaml:"dir"`
		MaxBytes int64  `yaml:"max_bytes"`
	} `yaml:"upload"`

	GraphQL struct {
		Debug bool `yaml:"debug"`
	} `yaml:"graphql"`
}

// Load lee .env (si existe), el YAML en path (opcional), aplica defaults y
// overrides por env, y valida.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var c Config
	// allow_none y seed son true salvo que el YAML o el env digan lo contrario.
	c.JWT.AllowNone = true
	c.Storage.Seed = true
	c.GraphQL.Debug = true

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: solo env + defaults
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyDefaults()
	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.Server.GraphQLPort == 0 {
		c.Server.GraphQLPort = DefaultGraphQLPort
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = "public"
	}
	if c.Server.AssetDirs == nil {
		c.Server.AssetDirs = map[string][]string{
			"/css": {"assets/bootstrap/css"},
			"/js":  {"assets/bootstrap/js", "assets/jquery", "assets/angular"},
		}
	}
	if c.Server.APIDocsDir == "" {
		c.Server.APIDocsDir = "api-docs"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = DefaultIssuer
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = DefaultTokenTTL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "dvws"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.Logs.Dir == "" {
		c.Logs.Dir = "logs"
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 10 << 20
	}
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// EXPRESS_JS_PORT se mantiene por compatibilidad con los .env del laboratorio.
	if v, ok := getEnvInt("EXPRESS_JS_PORT"); ok {
		c.Server.HTTPPort = v
	}
	if v, ok := getEnvInt("HTTP_PORT"); ok {
		c.Server.HTTPPort = v
	}
	if v, ok := getEnvInt("GRAPHQL_PORT"); ok {
		c.Server.GraphQLPort = v
	}
	if v, ok := getEnvStr("PUBLIC_DIR"); ok {
		c.Server.PublicDir = v
	}
	if v, ok := getEnvStr("API_DOCS_DIR"); ok {
		c.Server.APIDocsDir = v
	}

	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: JWT_TTL: %w", err)
		}
		c.JWT.TTL = d
	}
	if v, ok := getEnvBool("JWT_ALLOW_NONE"); ok {
		c.JWT.AllowNone = v
	}

	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvBool("STORAGE_SEED"); ok {
		c.Storage.Seed = v
	}

	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvBool("RATE_TRUST_PROXY"); ok {
		c.Rate.TrustProxy = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: RATE_LOGIN_WINDOW: %w", err)
		}
		c.Rate.Login.Window = d
	}

	if v, ok := getEnvStr("LOG_DIR"); ok {
		c.Logs.Dir = v
	}
	if v, ok := getEnvStr("UPLOAD_DIR"); ok {
		c.Upload.Dir = v
	}
	if v, ok := getEnvInt("UPLOAD_MAX_BYTES"); ok {
		c.Upload.MaxBytes = int64(v)
	}
	if v, ok := getEnvBool("GRAPHQL_DEBUG"); ok {
		c.GraphQL.Debug = v
	}
	return nil
}

// Validate chequea la configuración mínima para arrancar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("config: jwt ttl must be positive")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid http port %d", c.Server.HTTPPort)
	}
	if c.Server.GraphQLPort <= 0 || c.Server.GraphQLPort > 65535 {
		return fmt.Errorf("config: invalid graphql port %d", c.Server.GraphQLPort)
	}
	if c.Server.HTTPPort == c.Server.GraphQLPort {
		return errors.New("config: http and graphql ports must differ")
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("config: DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			return errors.New("config: REDIS_ADDR is required for redis cache")
		}
	default:
		return fmt.Errorf("config: unknown cache kind %q", c.Cache.Kind)
	}
	if c.Rate.Enabled && (c.Rate.Login.Limit <= 0 || c.Rate.Login.Window <= 0) {
		return errors.New("config: rate limit and window must be positive")
	}
	return nil
}

// HTTPAddr retorna ":<port>" para el listener REST.
func (c *Config) HTTPAddr() string { return ":" + strconv.Itoa(c.Server.HTTPPort) }

// GraphQLAddr retorna ":<port>" para el listener GraphQL.
func (c *Config) GraphQLAddr() string { return ":" + strconv.Itoa(c.Server.GraphQLPort) }

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, true
		}
	}
	return false, false
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultHTTPPort, c.Server.HTTPPort)
	require.Equal(t, DefaultGraphQLPort, c.Server.GraphQLPort)
	require.Equal(t, DefaultIssuer, c.JWT.Issuer)
	require.Equal(t, DefaultTokenTTL, c.JWT.TTL)
	require.True(t, c.JWT.AllowNone)
	require.False(t, c.Rate.TrustProxy)
	require.True(t, c.Storage.Seed)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, []string{"assets/bootstrap/js", "assets/jquery", "assets/angular"}, c.Server.AssetDirs["/js"])
	require.Equal(t, ":8080", c.HTTPAddr())
	require.Equal(t, ":4000", c.GraphQLAddr())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("EXPRESS_JS_PORT", "9000")
	t.Setenv("GRAPHQL_PORT", "9001")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("JWT_ALLOW_NONE", "false")
	t.Setenv("RATE_ENABLED", "true")
	t.Setenv("RATE_LOGIN_LIMIT", "3")
	t.Setenv("RATE_LOGIN_WINDOW", "30s")
	t.Setenv("RATE_TRUST_PROXY", "true")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9000, c.Server.HTTPPort)
	require.Equal(t, 9001, c.Server.GraphQLPort)
	require.Equal(t, time.Hour, c.JWT.TTL)
	require.False(t, c.JWT.AllowNone)
	require.True(t, c.Rate.Enabled)
	require.Equal(t, 3, c.Rate.Login.Limit)
	require.Equal(t, 30*time.Second, c.Rate.Login.Window)
	require.True(t, c.Rate.TrustProxy)

	// HTTP_PORT gana sobre el nombre legacy
	t.Setenv("HTTP_PORT", "9100")
	c, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 9100, c.Server.HTTPPort)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_TTL", "two days")
	_, err := Load("")
	require.ErrorContains(t, err, "JWT_TTL")
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: prod
server:
  http_port: 8181
  graphql_port: 4141
jwt:
  secret: from-file
  allow_none: false
storage:
  seed: false
cache:
  kind: redis
  redis:
    addr: localhost:6379
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", c.App.Env)
	require.Equal(t, 8181, c.Server.HTTPPort)
	require.Equal(t, "from-env", c.JWT.Secret)
	require.False(t, c.JWT.AllowNone)
	require.False(t, c.Storage.Seed)
	require.Equal(t, "redis", c.Cache.Kind)
	require.Equal(t, "dvws", c.Cache.Redis.Prefix)
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	base, err := Load("")
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"same ports":        func(c *Config) { c.Server.GraphQLPort = c.Server.HTTPPort },
		"port out of range": func(c *Config) { c.Server.HTTPPort = 70000 },
		"postgres no dsn":   func(c *Config) { c.Storage.Driver = "postgres"; c.Storage.DSN = "" },
		"unknown storage":   func(c *Config) { c.Storage.Driver = "mongo" },
		"redis no addr":     func(c *Config) { c.Cache.Kind = "redis"; c.Cache.Redis.Addr = "" },
		"bad rate":          func(c *Config) { c.Rate.Enabled = true; c.Rate.Login.Limit = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

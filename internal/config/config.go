package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at configPath, applies defaults and environment
// overrides, and validates the result. A missing file yields the defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath:
		// fall through with defaults
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// Parse builds a config from raw YAML bytes. Used by tests and tooling.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Host:      defaultDBHost,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Identity: IdentityConfig{
			SessionTTL:       defaultSessionTTL,
			CacheTTL:         defaultIdentityCacheTTL,
			AdminCookie:      defaultAdminCookie,
			SiteCookie:       defaultSiteCookie,
			LoginPath:        defaultLoginPath,
			UnauthorizedPath: defaultUnauthorizedPath,
		},
		Storage: StorageConfig{
			Driver:          defaultStorageDriver,
			Bucket:          defaultStorageBucket,
			Region:          defaultStorageRegion,
			MaxUploadSizeMB: defaultMaxUploadSizeMB,
		},
		Editor: EditorConfig{
			GatewayTimeout: defaultGatewayTimeout,
			IdleTimeout:    defaultEditorIdleTimeout,
		},
		Cache: CacheConfig{
			Enable: true,
			TTL:    defaultQueryCacheTTL,
		},
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvJWTSecret)); v != "" {
		cfg.Identity.AdminSecret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSiteJWTSecret)); v != "" {
		cfg.Identity.SiteSecret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDatabaseDSN)); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.Redis.URL = v
		cfg.Redis.Enable = true
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageSecretKey)); v != "" {
		cfg.Storage.SecretAccessKey = v
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "sqlite" && (cfg.Database.Port < 1 || cfg.Database.Port > 65535) {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	switch cfg.Storage.Driver {
	case "local":
	case "minio", "s3":
		if cfg.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for driver %q", cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("unsupported storage.driver %q", cfg.Storage.Driver)
	}
	if cfg.Editor.GatewayTimeout <= 0 {
		return fmt.Errorf("editor.gateway_timeout must be positive")
	}
	return nil
}

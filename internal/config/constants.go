package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8080
	defaultEnv        = "development"

	defaultDBDriver   = "mysql"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultPGPort     = 5432
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "handywriterz"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "data/handywriterz.db"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultStorageDriver   = "local"
	defaultStorageBucket   = "media"
	defaultStorageRegion   = "us-east-1"
	defaultMaxUploadSizeMB = 20

	defaultAdminCookie       = "hw_admin"
	defaultSiteCookie        = "__session"
	defaultLoginPath         = "/admin/login"
	defaultUnauthorizedPath  = "/admin/unauthorized"
	defaultSessionTTL        = 30 * 24 * time.Hour
	defaultIdentityCacheTTL  = 30 * time.Second
	defaultGatewayTimeout    = 15 * time.Second
	defaultEditorIdleTimeout = 2 * time.Hour
	defaultQueryCacheTTL     = time.Minute
)

// Environment variable overrides, applied after the YAML file.
const (
	EnvJWTSecret        = "HW_JWT_SECRET"
	EnvSiteJWTSecret    = "HW_SITE_JWT_SECRET"
	EnvDatabaseDSN      = "HW_DATABASE_DSN"
	EnvRedisURL         = "HW_REDIS_URL"
	EnvStorageSecretKey = "HW_STORAGE_SECRET_KEY"
	// EnvHome roots relative runtime paths (logs, uploads, sqlite file).
	EnvHome             = "HW_HOME"
)

package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Timezone       string                `yaml:"timezone"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Identity       IdentityConfig        `yaml:"identity"`
	Storage        StorageConfig         `yaml:"storage"`
	Editor         EditorConfig          `yaml:"editor"`
	Cache          CacheConfig           `yaml:"cache"`
	Paths          RuntimePathsConfig    `yaml:"paths"`

	// DSN and RedisURL are resolved from the sections above.
	DSN      string `yaml:"-"`
	RedisURL string `yaml:"-"`
}

type DatabaseRuntimeConfig struct {
	Driver    string            `yaml:"driver"` // mysql | postgres | sqlite
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	SSLMode   string            `yaml:"ssl_mode"`
	Path      string            `yaml:"path"` // sqlite file
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Enable   bool   `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// IdentityConfig configures the admin and site identity providers.
type IdentityConfig struct {
	AdminSecret      string        `yaml:"admin_secret"`
	SiteSecret       string        `yaml:"site_secret"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	AdminCookie      string        `yaml:"admin_cookie"`
	SiteCookie       string        `yaml:"site_cookie"`
	LoginPath        string        `yaml:"login_path"`
	UnauthorizedPath string        `yaml:"unauthorized_path"`
}

// StorageConfig selects the object storage driver for uploads.
type StorageConfig struct {
	Driver          string `yaml:"driver"` // local | minio | s3
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	PathStyle       bool   `yaml:"path_style"`
	PublicBaseURL   string `yaml:"public_base_url"`
	MaxUploadSizeMB int    `yaml:"max_upload_size_mb"`
}

type EditorConfig struct {
	GatewayTimeout time.Duration `yaml:"gateway_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type CacheConfig struct {
	Enable bool          `yaml:"enable"`
	TTL    time.Duration `yaml:"ttl"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" || c.Env == "dev" }

// LogDir returns the resolved log directory.
func (c *AppConfig) LogDir() string { return ResolveRuntimePath(c.Paths.Logs, "logs") }

// StaticDir returns the resolved directory used by the local storage driver.
func (c *AppConfig) StaticDir() string { return ResolveRuntimePath(c.Paths.Static, "static") }

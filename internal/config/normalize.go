package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.Identity = normalizeIdentityConfig(cfg.Identity)
	cfg.Storage = normalizeStorageConfig(cfg.Storage)
	if cfg.Editor.IdleTimeout <= 0 {
		cfg.Editor.IdleTimeout = defaultEditorIdleTimeout
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = defaultQueryCacheTTL
	}
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.Paths.Static = strings.TrimSpace(cfg.Paths.Static)

	cfg.DSN = cfg.Database.DSNValue()
	if cfg.Redis.Enable {
		cfg.RedisURL = cfg.Redis.URLValue()
	}
}

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Password = strings.TrimSpace(cfg.Password)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Charset = strings.TrimSpace(cfg.Charset)
	cfg.Loc = strings.TrimSpace(cfg.Loc)
	cfg.SSLMode = strings.TrimSpace(cfg.SSLMode)
	cfg.Path = strings.TrimSpace(cfg.Path)

	switch cfg.Driver {
	case "", "mariadb":
		cfg.Driver = defaultDBDriver
	case "postgresql", "pg", "supabase":
		cfg.Driver = "postgres"
	case "sqlite3":
		cfg.Driver = "sqlite"
	}
	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		if cfg.Driver == "postgres" {
			cfg.Port = defaultPGPort
		} else {
			cfg.Port = defaultDBPort
		}
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if cfg.Charset == "" {
		cfg.Charset = defaultDBCharset
	}
	if cfg.Loc == "" {
		cfg.Loc = defaultDBLoc
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.Path == "" {
		cfg.Path = defaultSQLitePath
	}
	if cfg.Params != nil {
		cfg.Params = copyStringMap(cfg.Params)
	}
	return cfg
}

func normalizeRedisConfig(cfg RedisRuntimeConfig) RedisRuntimeConfig {
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.Password = strings.TrimSpace(cfg.Password)

	if cfg.Host == "" && cfg.URL == "" {
		cfg.Host = defaultRedisHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultRedisPort
	}
	if cfg.URL != "" {
		cfg.Enable = true
	}
	return cfg
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeIdentityConfig(cfg IdentityConfig) IdentityConfig {
	cfg.AdminSecret = strings.TrimSpace(cfg.AdminSecret)
	cfg.SiteSecret = strings.TrimSpace(cfg.SiteSecret)
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	if strings.TrimSpace(cfg.AdminCookie) == "" {
		cfg.AdminCookie = defaultAdminCookie
	}
	if strings.TrimSpace(cfg.SiteCookie) == "" {
		cfg.SiteCookie = defaultSiteCookie
	}
	if strings.TrimSpace(cfg.LoginPath) == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if strings.TrimSpace(cfg.UnauthorizedPath) == "" {
		cfg.UnauthorizedPath = defaultUnauthorizedPath
	}
	return cfg
}

func normalizeStorageConfig(cfg StorageConfig) StorageConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if cfg.Driver == "" {
		cfg.Driver = defaultStorageDriver
	}
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	cfg.Region = strings.TrimSpace(cfg.Region)
	if cfg.Region == "" {
		cfg.Region = defaultStorageRegion
	}
	cfg.AccessKeyID = strings.TrimSpace(cfg.AccessKeyID)
	cfg.SecretAccessKey = strings.TrimSpace(cfg.SecretAccessKey)
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = defaultMaxUploadSizeMB
	}
	return cfg
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func copyStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

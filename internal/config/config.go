package config

import (
	"strings"
	"time"
)

// Mode selects where the page template comes from and how errors are logged.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

// ParseMode maps "production" (any case) to ModeProduction and anything else to development.
func ParseMode(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), productionModeIndicator) {
		return ModeProduction
	}
	return ModeDevelopment
}

// Config holds runtime configuration for the server. It is built once at
// startup and passed by value to every component.
type Config struct {
	Port         string
	Mode         Mode
	TemplatePath string
	TrustProxy   bool
	AdminToken   string
	Site         SiteConfig
	Upstream     UpstreamConfig
	Cache        CacheConfig
	Render       RenderConfig
	Log          LogConfig
	Metrics      MetricsConfig
}

// SiteConfig holds the values stamped on social metadata.
type SiteConfig struct {
	Name          string
	TwitterHandle string
}

// UpstreamConfig controls how we talk to the matches API. An empty BaseURL
// disables server-side fetching.
type UpstreamConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CacheConfig controls the metadata and preview image caches.
type CacheConfig struct {
	MetaTTL       time.Duration
	ImageTTL      time.Duration
	Capacity      int
	SweepInterval time.Duration
}

// RenderConfig points at the application render sidecar. An empty URL serves
// the client-rendered shell.
type RenderConfig struct {
	URL     string
	Timeout time.Duration
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string
	Format string
}

// IsProduction reports whether the server runs against built assets.
func (c Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Load reads configuration from environment variables with sensible
// defaults, layering SITE_CONFIG_FILE (when set) underneath the environment.
func Load() (Config, error) {
	mode := ParseMode(firstEnv(envAppEnv, envNodeEnv))
	cfg := Config{
		Port:       defaultPort,
		Mode:       mode,
		TrustProxy: boolEnvOrDefault(envTrustProxy, false),
		AdminToken: envOrDefault(envAdminToken, ""),
		Site:       SiteConfig{Name: defaultSiteName},
		Cache: CacheConfig{
			MetaTTL:  defaultMetaTTL,
			ImageTTL: defaultImageTTL,
			Capacity: defaultCacheCapacity,
		},
	}

	file, err := readSiteFile(envOrDefault(envSiteFile, ""))
	if err != nil {
		return Config{}, err
	}
	file.applyTo(&cfg)

	cfg.Port = envOrDefault(envPort, cfg.Port)
	cfg.TemplatePath = envOrDefault(envTemplatePath, defaultTemplatePath(mode))
	if name := firstEnv(envSiteName, envSiteNameVite); name != "" {
		cfg.Site.Name = name
	}
	if handle := firstEnv(envTwitter, envTwitterVite); handle != "" {
		cfg.Site.TwitterHandle = handle
	}
	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimSuffix(firstEnv(envAPIBaseURL, envAPIBaseVite), "/"),
		APIKey:  firstEnv(envAPIKey, envAPIKeyVite),
		Timeout: durationEnvOrDefault(envUpstreamTO, defaultUpstreamTimeout),
	}
	cfg.Cache.MetaTTL = millisEnvOrDefault(cfg.Cache.MetaTTL, envMetaTTL, envMetaTTLVite)
	cfg.Cache.ImageTTL = millisEnvOrDefault(cfg.Cache.ImageTTL, envImageTTL)
	cfg.Cache.Capacity = intEnvOrDefault(envCacheCapacity, cfg.Cache.Capacity)
	cfg.Cache.SweepInterval = durationEnvOrDefault(envCacheSweep, defaultCacheSweep)
	cfg.Render = RenderConfig{
		URL:     strings.TrimSpace(envOrDefault(envRendererURL, "")),
		Timeout: durationEnvOrDefault(envRenderTO, defaultRenderTimeout),
	}
	cfg.Log = LogConfig{
		Level:  envOrDefault(envLogLevel, ""),
		Format: envOrDefault(envLogFormat, ""),
	}
	cfg.Metrics = loadMetrics()

	return cfg, nil
}

func defaultTemplatePath(mode Mode) string {
	if mode == ModeProduction {
		return defaultProdTemplate
	}
	return defaultDevTemplate
}

// SetMode switches the mode. A template path still at the old mode's default
// follows the new mode; an explicit path is kept.
func (c *Config) SetMode(m Mode) {
	if c.TemplatePath == defaultTemplatePath(c.Mode) {
		c.TemplatePath = defaultTemplatePath(m)
	}
	c.Mode = m
}

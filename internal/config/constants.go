package config

import "time"

const (
	envPort          = "PORT"
	envAppEnv        = "APP_ENV"
	envNodeEnv       = "NODE_ENV"
	envTemplatePath  = "TEMPLATE_PATH"
	envTrustProxy    = "TRUST_PROXY"
	envAdminToken    = "ADMIN_TOKEN"
	envSiteFile      = "SITE_CONFIG_FILE"
	envSiteName      = "SITE_NAME"
	envSiteNameVite  = "VITE_PUBLIC_SITE_NAME"
	envTwitter       = "TWITTER_HANDLE"
	envTwitterVite   = "VITE_PUBLIC_TWITTER_HANDLE"
	envAPIBaseURL    = "API_BASE_URL"
	envAPIBaseVite   = "VITE_API_URL"
	envAPIKey        = "API_KEY"
	envAPIKeyVite    = "VITE_API_KEY"
	envUpstreamTO    = "UPSTREAM_TIMEOUT"
	envMetaTTL       = "META_CACHE_TTL_MS"
	envMetaTTLVite   = "VITE_META_CACHE_TTL_MS"
	envImageTTL      = "IMAGE_CACHE_TTL_MS"
	envCacheCapacity = "CACHE_CAPACITY"
	envCacheSweep    = "CACHE_SWEEP_INTERVAL"
	envRendererURL   = "RENDERER_URL"
	envRenderTO      = "RENDER_TIMEOUT"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort             = "5173"
	defaultSiteName         = "Footy Guide"
	defaultProdTemplate     = "dist/client/index.html"
	defaultDevTemplate      = "index.html"
	defaultUpstreamTimeout  = 4 * Duration(time.Second)
	defaultMetaTTL          = 5 * Duration(time.Minute)
	defaultImageTTL         = 5 * Duration(time.Minute)
	defaultCacheCapacity    = 1024
	defaultCacheSweep       = Duration(time.Minute)
	defaultRenderTimeout    = 10 * Duration(time.Second)
	defaultMetricsPort      = "9090"
	defaultMetricsService   = "footy-guide-ssr"
	productionModeIndicator = "production"
)

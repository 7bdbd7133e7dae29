package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// siteFile is the optional TOML file named by SITE_CONFIG_FILE. Environment
// variables win over anything set here.
type siteFile struct {
	Name          string `toml:"name"`
	TwitterHandle string `toml:"twitter_handle"`
	Cache         struct {
		MetaTTLMs  int64 `toml:"meta_ttl_ms"`
		ImageTTLMs int64 `toml:"image_ttl_ms"`
		Capacity   int   `toml:"capacity"`
	} `toml:"cache"`
}

func readSiteFile(path string) (siteFile, error) {
	var file siteFile
	if path == "" {
		return file, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("config: read site file: %w", err)
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return file, fmt.Errorf("config: parse site file %s: %w", path, err)
	}
	return file, nil
}

// applyTo layers the file's values over the built-in defaults.
func (f siteFile) applyTo(cfg *Config) {
	if f.Name != "" {
		cfg.Site.Name = f.Name
	}
	if f.TwitterHandle != "" {
		cfg.Site.TwitterHandle = f.TwitterHandle
	}
	if f.Cache.MetaTTLMs > 0 {
		cfg.Cache.MetaTTL = time.Duration(f.Cache.MetaTTLMs) * time.Millisecond
	}
	if f.Cache.ImageTTLMs > 0 {
		cfg.Cache.ImageTTL = time.Duration(f.Cache.ImageTTLMs) * time.Millisecond
	}
	if f.Cache.Capacity > 0 {
		cfg.Cache.Capacity = f.Cache.Capacity
	}
}

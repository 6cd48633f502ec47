package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/roomcraft/roomcraft/backend-go/internal/engine"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:"sqlite://./data/roomcraft.db"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// Editor tuning, in meters.
	SnapDistance  float64 `envconfig:"SNAP_DISTANCE" default:"0.5"`
	MinWallLength float64 `envconfig:"MIN_WALL_LENGTH" default:"0.2"`
	GridEnabled   bool    `envconfig:"GRID_ENABLED" default:"true"`
	WallHeight    float64 `envconfig:"WALL_HEIGHT" default:"3"`
	WallThickness float64 `envconfig:"WALL_THICKNESS" default:"0.1"`

	PreviewSize  int           `envconfig:"PREVIEW_SIZE" default:"512"`
	SaveInterval time.Duration `envconfig:"SAVE_INTERVAL" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginHosts returns the allowed origins without scheme, the form the
// websocket accept options expect.
func (c *Config) OriginHosts() []string {
	origins := c.Origins()
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		hosts = append(hosts, o)
	}
	return hosts
}

// EngineOptions builds the editor options from the configuration.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.SnapDistance = c.SnapDistance
	opts.MinWallLength = c.MinWallLength
	opts.GridEnabled = c.GridEnabled
	opts.WallThickness = c.WallThickness
	return opts
}

package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppConfig is the process-wide configuration. It is loaded once at startup
// and must not be mutated afterwards; every component receives the pieces it
// needs at construction time.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Transit    TransitConfig    `yaml:"transit"`
	Directions DirectionsConfig `yaml:"directions"`
	Trip       TripConfig       `yaml:"trip"`
	Line       LineConfig       `yaml:"line"`
}

// ServerConfig configures the Fiber HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// TransitConfig configures the schedule extractor (scraped provider).
type TransitConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	From           string `yaml:"from" validate:"required"`
	To             string `yaml:"to" validate:"required"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// DumpDir, when set, saves every fetched results page for inspection.
	DumpDir string `yaml:"dump_dir"`
}

// DirectionsConfig configures the directions API client.
type DirectionsConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	APIKey  string `yaml:"api_key"`
}

// TripConfig holds the fixed anchors of the three-leg trip home.
type TripConfig struct {
	// StationAnchor is the directions-provider waypoint for the home-side
	// station: either a place name or a "lat,lon" pair.
	StationAnchor string `yaml:"station_anchor" validate:"required"`
	HomeAddress   string `yaml:"home_address" validate:"required"`
	// LastMileMinutes is the fixed cycling offset used when the bike leg's
	// duration label cannot be parsed.
	LastMileMinutes int `yaml:"last_mile_minutes" validate:"min=1"`
}

// LineConfig holds the messaging-platform credentials. Both values are
// optional: without them the webhook endpoint rejects everything and the
// debug API remains usable.
type LineConfig struct {
	ChannelSecret string `yaml:"channel_secret"`
	ChannelToken  string `yaml:"channel_token"`
}

// Load reads config.yml (if present), applies environment overrides and
// defaults, and validates the result.
func Load() (*AppConfig, error) {
	var cfg AppConfig

	paths := []string{"config.yml", "./configs/config.yml"}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		break
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets environment variables override file values. godotenv is
// loaded by main before this runs.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	setString(&cfg.Transit.BaseURL, "TRANSIT_BASE_URL")
	setString(&cfg.Transit.From, "TRANSIT_FROM")
	setString(&cfg.Transit.To, "TRANSIT_TO")
	setString(&cfg.Transit.UserAgent, "TRANSIT_USER_AGENT")
	setString(&cfg.Transit.DumpDir, "TRANSIT_DUMP_DIR")
	if v := os.Getenv("TRANSIT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Transit.TimeoutSeconds = secs
		}
	}
	setString(&cfg.Directions.BaseURL, "DIRECTIONS_BASE_URL")
	setString(&cfg.Directions.APIKey, "DIRECTIONS_API_KEY")
	setString(&cfg.Trip.StationAnchor, "TRIP_STATION_ANCHOR")
	setString(&cfg.Trip.HomeAddress, "TRIP_HOME_ADDRESS")
	if v := os.Getenv("TRIP_LAST_MILE_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil {
			cfg.Trip.LastMileMinutes = mins
		}
	}
	setString(&cfg.Line.ChannelSecret, "LINE_CHANNEL_SECRET")
	setString(&cfg.Line.ChannelToken, "LINE_CHANNEL_ACCESS_TOKEN")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Transit.BaseURL == "" {
		cfg.Transit.BaseURL = "https://transit.yahoo.co.jp"
	}
	if cfg.Transit.UserAgent == "" {
		// The provider rejects Go's default client identification.
		cfg.Transit.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if cfg.Transit.TimeoutSeconds == 0 {
		cfg.Transit.TimeoutSeconds = 10
	}
	if cfg.Directions.BaseURL == "" {
		cfg.Directions.BaseURL = "https://maps.googleapis.com/maps/api"
	}
	if cfg.Trip.LastMileMinutes == 0 {
		cfg.Trip.LastMileMinutes = 15
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Analysis  AnalysisConfig
	Firms     FirmsConfig
	Weather   WeatherConfig
	Geocoder  GeocoderConfig
	Predictor PredictorConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type AnalysisConfig struct {
	MaxHotspots     int
	RefreshInterval time.Duration
	WorkerCount     int
}

type FirmsConfig struct {
	BaseURL string
	APIKey  string
	Source  string
	Area    string
}

type WeatherConfig struct {
	BaseURL string
}

type GeocoderConfig struct {
	BaseURL   string
	CacheTTL  time.Duration
	UserAgent string
}

type PredictorConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Analysis: AnalysisConfig{
			MaxHotspots:     getEnvInt("MAX_HOTSPOTS", 10),
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
			WorkerCount:     getEnvInt("ANALYSIS_WORKERS", 4),
		},
		Firms: FirmsConfig{
			BaseURL: getEnv("FIRMS_URL", "https://firms.modaps.eosdis.nasa.gov/api/area/csv"),
			APIKey:  getEnv("FIRMS_API_KEY", ""),
			Source:  getEnv("FIRMS_SOURCE", "VIIRS_SNPP_NRT"),
			Area:    getEnv("FIRMS_AREA", "world"),
		},
		Weather: WeatherConfig{
			BaseURL: getEnv("WEATHER_URL", "https://api.open-meteo.com/v1/forecast"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			CacheTTL:  getEnvDuration("GEOCODER_CACHE_TTL", time.Hour),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "wildfire-intel/1.0"),
		},
		Predictor: PredictorConfig{
			BaseURL: getEnv("MODEL_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("MODEL_TIMEOUT", 15*time.Second),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/wildfire-intel.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Analysis.MaxHotspots < 1 {
		return fmt.Errorf("MAX_HOTSPOTS must be at least 1")
	}
	if c.Analysis.WorkerCount < 1 {
		return fmt.Errorf("ANALYSIS_WORKERS must be at least 1")
	}
	if c.Analysis.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

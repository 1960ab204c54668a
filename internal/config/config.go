package config

import (
	"fmt"
	"os"
	"strconv"

	"medscan/internal/logger"
)

type Config struct {
	// Reference range configuration
	RangesFile string // optional JSON file overlaying the embedded table

	// Analysis thresholds
	CriticalMargin         float64 // fraction beyond a bound that makes a value critical
	ConfidenceFloor        float32 // hard OCR-confidence floor, below it analysis is rejected
	LowConfidenceThreshold float32 // soft threshold, below it results carry the low-confidence flag

	// Trend computation
	TrendWindow         int     // number of recent points the direction is judged over
	TrendNoiseTolerance float64 // fraction of range width treated as zero slope

	// OCR Configuration
	OCRBackend string // "vision" or "documentai"

	// OpenAI Configuration (summarize command only)
	OpenAIAPIKey string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		RangesFile:             getEnv("MEDSCAN_RANGES_FILE", ""),
		CriticalMargin:         getEnvFloat("MEDSCAN_CRITICAL_MARGIN", 0.25),
		ConfidenceFloor:        float32(getEnvFloat("MEDSCAN_CONFIDENCE_FLOOR", 0.20)),
		LowConfidenceThreshold: float32(getEnvFloat("MEDSCAN_LOW_CONFIDENCE_THRESHOLD", 0.60)),
		TrendWindow:            getEnvInt("MEDSCAN_TREND_WINDOW", 3),
		TrendNoiseTolerance:    getEnvFloat("MEDSCAN_TREND_NOISE_TOLERANCE", 0.05),
		OCRBackend:             getEnv("MEDSCAN_OCR_BACKEND", "vision"),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:          getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:              getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.CriticalMargin < 0 {
		return fmt.Errorf("MEDSCAN_CRITICAL_MARGIN must not be negative")
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("MEDSCAN_CONFIDENCE_FLOOR must be in [0,1]")
	}
	if c.LowConfidenceThreshold < 0 || c.LowConfidenceThreshold > 1 {
		return fmt.Errorf("MEDSCAN_LOW_CONFIDENCE_THRESHOLD must be in [0,1]")
	}
	if c.TrendWindow < 2 {
		return fmt.Errorf("MEDSCAN_TREND_WINDOW must be at least 2")
	}
	if c.TrendNoiseTolerance < 0 {
		return fmt.Errorf("MEDSCAN_TREND_NOISE_TOLERANCE must not be negative")
	}
	if c.OCRBackend != "vision" && c.OCRBackend != "documentai" {
		return fmt.Errorf("MEDSCAN_OCR_BACKEND must be %q or %q", "vision", "documentai")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

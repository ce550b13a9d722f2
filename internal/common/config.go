package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	OCR        OCRConfig
	NER        NERConfig
	RefData    RefDataConfig
	Reputation ReputationConfig
	Advisor    AdvisorConfig
	Intake     IntakeConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TessdataDir      string
	TesseractLang    string
	DPI              int
	MaxPages         int
	ArtifactCacheDir string
}

// NERConfig holds entity-recognition sidecar configuration
type NERConfig struct {
	BaseURL       string
	Timeout       time.Duration
	GazetteerPath string
}

// RefDataConfig points at the two reference documents used by verification.
type RefDataConfig struct {
	PoliciesPath string
	LimitsPath   string
}

// ReputationConfig holds Google Custom Search configuration
type ReputationConfig struct {
	APIKey         string
	SearchEngineID string
	Timeout        time.Duration
	CacheTTL       time.Duration
	RedisAddr      string
	RatePerMinute  int
}

// AdvisorConfig holds generative-recommendation configuration
type AdvisorConfig struct {
	Provider    string // "gemini" | "openai" | "" (rule-based only)
	Model       string
	GeminiKey   string
	OpenAIKey   string
	Temperature float32
	Timeout     time.Duration
}

// IntakeConfig holds drop-folder intake configuration
type IntakeConfig struct {
	WatchDir string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		OCR: OCRConfig{
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			TesseractLang:    getEnv("TESSERACT_LANG", "eng"),
			DPI:              getEnvAsInt("OCR_DPI", 300),
			MaxPages:         getEnvAsInt("OCR_MAX_PAGES", 0),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
		NER: NERConfig{
			BaseURL:       getEnv("NER_URL", "http://localhost:8090"),
			Timeout:       getEnvAsDuration("NER_TIMEOUT", 15*time.Second),
			GazetteerPath: getEnv("PROVIDER_GAZETTEER", ""),
		},
		RefData: RefDataConfig{
			PoliciesPath: getEnv("POLICIES_DB_PATH", "./refdata/policies_db.json"),
			LimitsPath:   getEnv("PROCEDURES_DB_PATH", "./refdata/procedures_db.json"),
		},
		Reputation: ReputationConfig{
			APIKey:         getEnv("GOOGLE_API_KEY", ""),
			SearchEngineID: getEnv("SEARCH_ENGINE_ID", ""),
			Timeout:        getEnvAsDuration("REPUTATION_TIMEOUT", 10*time.Second),
			CacheTTL:       getEnvAsDuration("REPUTATION_CACHE_TTL", 6*time.Hour),
			RedisAddr:      getEnv("REDIS_ADDR", ""),
			RatePerMinute:  getEnvAsInt("REPUTATION_RATE_PER_MINUTE", 30),
		},
		Advisor: AdvisorConfig{
			Provider:    getEnv("ADVISOR_PROVIDER", ""),
			Model:       getEnv("ADVISOR_MODEL", ""),
			GeminiKey:   getEnv("GEMINI_API_KEY", ""),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("ADVISOR_TEMPERATURE", 0.2),
			Timeout:     getEnvAsDuration("ADVISOR_TIMEOUT", 30*time.Second),
		},
		Intake: IntakeConfig{
			WatchDir: getEnv("INTAKE_WATCH_DIR", ""),
			Debounce: getEnvAsDuration("INTAKE_DEBOUNCE", 2*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.NER.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "NER_URL is required", ErrInvalidInput)
	}
	if c.RefData.PoliciesPath == "" || c.RefData.LimitsPath == "" {
		return NewAppError("CONFIG_ERROR", "POLICIES_DB_PATH and PROCEDURES_DB_PATH are required", ErrInvalidInput)
	}
	return nil
}

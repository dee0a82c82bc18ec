package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins string

	StoreDriver   string
	DataDir       string
	PostgresUrl   string
	MongoURI      string
	MongoDatabase string

	UploadsDir    string
	MediaBackend  string
	MaxUploadSize string

	FirebaseCredentialsPath string
	FirebaseBucket          string

	JWTSecret   string
	TokenTTL    time.Duration
	MetricsPort string

	StorySweepInterval time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads the configuration from the environment, after loading a .env file
// when one exists. The second result reports whether a .env file was found.
func Load() (*Config, bool) {
	foundEnvFile := godotenv.Load() == nil

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		StoreDriver:   getEnv("STORE_DRIVER", "file"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		PostgresUrl:   getEnv("POSTGRES_URL", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "socialmedia"),

		UploadsDir:    getEnv("UPLOADS_DIR", "./uploads"),
		MediaBackend:  getEnv("MEDIA_BACKEND", "local"),
		MaxUploadSize: getEnv("MAX_UPLOAD_SIZE", "100M"),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseBucket:          getEnv("FIREBASE_BUCKET", ""),

		JWTSecret:   getEnv("JWT_SECRET", "supersecretjwtkey"),
		TokenTTL:    getDuration("TOKEN_TTL", 72*time.Hour),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		StorySweepInterval: getDuration("STORY_SWEEP_INTERVAL", time.Hour),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}, foundEnvFile
}

func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsPath != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

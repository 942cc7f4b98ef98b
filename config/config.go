package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigin        string `mapstructure:"CORS_ORIGIN"`

	// MongoDB configuration.
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	MongoTransactions bool   `mapstructure:"MONGO_TRANSACTIONS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase service account.
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseClientEmail     string `mapstructure:"FIREBASE_CLIENT_EMAIL"`
	FirebasePrivateKey      string `mapstructure:"FIREBASE_PRIVATE_KEY"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Realtime chat.
	SocketTicketSecret string        `mapstructure:"SOCKET_TICKET_SECRET"`
	SocketTicketTTL    time.Duration `mapstructure:"SOCKET_TICKET_TTL"`

	// Booking side effects.
	IdempotencyTTL      time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	ReminderLead        time.Duration `mapstructure:"REMINDER_LEAD"`
	RatingReconcileCron string        `mapstructure:"RATING_RECONCILE_CRON"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing with process environment")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	for key, value := range defaults() {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func defaults() map[string]any {
	return map[string]any{
		"APP_PORT":                  "8080",
		"ENV":                       "development",
		"LOG_LEVEL":                 "info",
		"MAX_REQUESTS_PER_MIN":      100,
		"CORS_ORIGIN":               "*",
		"DATABASE_URL":              "mongodb://localhost:27017",
		"DATABASE_NAME":             "hausly",
		"MONGO_TRANSACTIONS":        false,
		"REDIS_ADDR":                "localhost:6379",
		"REDIS_PASSWORD":            "",
		"REDIS_CACHE_DB":            0,
		"REDIS_AUTH_DB":             1,
		"REDIS_QUEUE_DB":            2,
		"FIREBASE_PROJECT_ID":       "",
		"FIREBASE_CLIENT_EMAIL":     "",
		"FIREBASE_PRIVATE_KEY":      "",
		"FIREBASE_CREDENTIALS_FILE": "",
		"SOCKET_TICKET_SECRET":      "",
		"SOCKET_TICKET_TTL":         time.Minute,
		"IDEMPOTENCY_TTL":           24 * time.Hour,
		"REMINDER_LEAD":             time.Hour,
		"RATING_RECONCILE_CRON":     "0 3 * * *",
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

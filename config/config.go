package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	ApiPort string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost string
	RedisPort string

	JWTSecret string
	ClientUrl string

	// DefaultJudgeEmail is the email of the judge seeded on an empty database
	DefaultJudgeEmail string

	// RatingMin and RatingMax bound the value of a single rating event
	RatingMin int
	RatingMax int
)

// LoadConfig loads the configuration from the .env file and the environment
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	ApiPort = getEnv("API_PORT", "8080")

	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "postgres")
	PostgresPassword = getEnv("POSTGRES_PASSWORD", "postgres")
	PostgresDB = getEnv("POSTGRES_DB", "arena")

	RedisHost = getEnv("REDIS_HOST", "")
	RedisPort = getEnv("REDIS_PORT", "6379")

	JWTSecret = getEnv("JWT_SECRET", "")
	ClientUrl = getEnv("CLIENT_URL", "http://localhost:3000")
	DefaultJudgeEmail = getEnv("DEFAULT_JUDGE_EMAIL", "judge@arena.local")

	RatingMin = getEnvInt("RATING_MIN", 1)
	RatingMax = getEnvInt("RATING_MAX", 10)
	if RatingMin > RatingMax {
		log.Fatalf("invalid rating range: RATING_MIN (%d) is greater than RATING_MAX (%d)", RatingMin, RatingMax)
	}

	DefaultRateLimitConfig = RateLimitConfig{
		RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", defaultRequestsPerSecond),
		Burst:             getEnvInt("RATE_LIMIT_BURST", defaultBurst),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using %d", key, raw, fallback)
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using %v", key, raw, fallback)
		return fallback
	}
	return value
}

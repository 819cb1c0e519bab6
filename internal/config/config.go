package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	UsageTopic   string // Token usage event topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "huggingface"
	TierOneModel      string // fast/simple
	TierTwoModel      string // default
	TierThreeModel    string // highest quality
}

type AgentConfig struct {
	RateLimitPerHour     int
	InlineMaxSteps       int
	BackgroundMaxSteps   int
	InlineTimeoutSec     int
	BackgroundTimeoutMin int
	PendingTTLDays       int
	PendingMaxRounds     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Helena"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			UsageTopic:   getEnv("AGENT_USAGE_TOPIC_NAME", "AGENT_TOKEN_USAGE"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			TierOneModel:      getEnv("LLM_MODEL_TIER1", "llama3"),
			TierTwoModel:      getEnv("LLM_MODEL_TIER2", "qwen2.5:14b"),
			TierThreeModel:    getEnv("LLM_MODEL_TIER3", "qwen2.5:72b"),
		},
		Agent: AgentConfig{
			RateLimitPerHour:     getEnvAsInt("AGENT_RATE_LIMIT_PER_HOUR", 60),
			InlineMaxSteps:       getEnvAsInt("AGENT_INLINE_MAX_STEPS", 5),
			BackgroundMaxSteps:   getEnvAsInt("AGENT_BACKGROUND_MAX_STEPS", 20),
			InlineTimeoutSec:     getEnvAsInt("AGENT_INLINE_TIMEOUT_SEC", 30),
			BackgroundTimeoutMin: getEnvAsInt("AGENT_BACKGROUND_TIMEOUT_MIN", 180),
			PendingTTLDays:       getEnvAsInt("PIPELINE_PENDING_TTL_DAYS", 7),
			PendingMaxRounds:     getEnvAsInt("PIPELINE_PENDING_MAX_ROUNDS", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

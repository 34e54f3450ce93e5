package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Guidance  GuidanceConfig
	Retrieval RetrievalConfig
	Ingest    IngestConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "openai"
	EmbeddingBaseURL  string
	EmbeddingModel    string
	LLMProvider       string // "ollama" or "openai"
	LLMBaseURL        string
	LLMModel          string // e.g. "llama3", "gpt-4o-mini"
	APIKey            string // for OpenAI-compatible endpoints
}

type GuidanceConfig struct {
	BaseURL string
	APIKey  string
}

type RetrievalConfig struct {
	CacheCapacity   int
	CacheTTLMinutes int
	Limit           int
	ScoreThreshold  float64
	SemanticWeight  float64
	KeywordWeight   float64
	MaxHops         int
}

type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
	EmbedTopic   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			APIKey:            getEnv("AI_API_KEY", ""),
		},
		Guidance: GuidanceConfig{
			BaseURL: getEnv("GUIDANCE_BASE_URL", ""),
			APIKey:  getEnv("GUIDANCE_API_KEY", ""),
		},
		Retrieval: RetrievalConfig{
			CacheCapacity:   getEnvAsInt("RETRIEVAL_CACHE_CAPACITY", 100),
			CacheTTLMinutes: getEnvAsInt("RETRIEVAL_CACHE_TTL_MINUTES", 30),
			Limit:           getEnvAsInt("RETRIEVAL_LIMIT", 5),
			ScoreThreshold:  getEnvAsFloat("RETRIEVAL_SCORE_THRESHOLD", 0.25),
			SemanticWeight:  getEnvAsFloat("RETRIEVAL_SEMANTIC_WEIGHT", 0.7),
			KeywordWeight:   getEnvAsFloat("RETRIEVAL_KEYWORD_WEIGHT", 0.3),
			MaxHops:         getEnvAsInt("RETRIEVAL_MAX_HOPS", 2),
		},
		Ingest: IngestConfig{
			ChunkSize:    getEnvAsInt("INGEST_CHUNK_SIZE", 1500),
			ChunkOverlap: getEnvAsInt("INGEST_CHUNK_OVERLAP", 200),
			EmbedTopic:   getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT_CONTENT"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

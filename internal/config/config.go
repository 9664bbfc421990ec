package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LiveKit  LiveKitConfig
	Auth     AuthConfig
	Voice    VoiceConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LiveKitConfig carries the SFU control API endpoint and the key pair used
// to sign join tokens.
type LiveKitConfig struct {
	URL       string
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

// VoiceConfig tunes the presence index and room provisioning behavior.
type VoiceConfig struct {
	// PresenceTTL bounds how long a user's session hash survives without a
	// refresh. It is the liveness backstop for crashed joins.
	PresenceTTL time.Duration
	// RoomEmptyTimeout is handed to the SFU so it reaps rooms this service
	// failed to tear down.
	RoomEmptyTimeout    time.Duration
	RoomMaxParticipants uint32
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "voicehub"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", "ws://localhost:7880"),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
			TokenTTL:  getEnvAsDuration("LIVEKIT_TOKEN_TTL", 6*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me"),
		},
		Voice: VoiceConfig{
			PresenceTTL:         getEnvAsDuration("VOICE_PRESENCE_TTL", time.Hour),
			RoomEmptyTimeout:    getEnvAsDuration("VOICE_ROOM_EMPTY_TIMEOUT", 5*time.Minute),
			RoomMaxParticipants: uint32(getEnvAsInt("VOICE_ROOM_MAX_PARTICIPANTS", 50)),
		},
	}, nil
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

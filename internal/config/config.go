package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Art     ArtConfig
	Reward  RewardConfig
	Admin   AdminConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds room tuning knobs.
type GameConfig struct {
	MaxPlayers     int
	RoomCodeLength int
}

// ArtConfig holds the image search API settings.
type ArtConfig struct {
	APIURL string
	APIKey string
}

// RewardConfig holds the winner-reward webhook settings.
type RewardConfig struct {
	WebhookURL   string
	SharedSecret string
}

// AdminConfig holds the admin action settings.
type AdminConfig struct {
	SharedSecret string
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults, reading a
// .env file first if one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MaxPlayers:     getEnvInt("MAX_PLAYERS", 12),
			RoomCodeLength: getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		Art: ArtConfig{
			APIURL: getEnv("ART_API_URL", "https://api.artsource.dev/v1/search"),
			APIKey: getEnv("ART_API_KEY", ""),
		},
		Reward: RewardConfig{
			WebhookURL:   getEnv("REWARD_WEBHOOK_URL", ""),
			SharedSecret: getEnv("REWARD_SHARED_SECRET", ""),
		},
		Admin: AdminConfig{
			SharedSecret: getEnv("ADMIN_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format.
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

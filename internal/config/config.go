package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultRiffusionVersion pins the public riffusion model on Replicate.
const DefaultRiffusionVersion = "8cf61ea6c56afd61d8f5b9ffd14d7c216c0a93844ce2d82ac1c9ecc9c7f24e05"

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port           int
	GenerateDir    string // where sine_wave_*.wav files land
	NamingScheme   string // legacy or exact
	WAVEncoding    string // float32 or pcm16
	EmbedURL       string // third-party page shown in the iframe
	LogDevelopment bool
	// Browser origins allowed to call the API cross-site. Empty means
	// same-origin only.
	AllowedOrigins []string

	// Replicate connection
	ReplicateAPIURL   string
	ReplicateAPIToken string
	PollInterval      time.Duration

	// Riffusion model and its generation parameters
	RiffusionModel   string
	RiffusionVersion string
	Denoising        float64
	Alpha            float64
	InferenceSteps   int
	SeedImageID      string

	// MQTT artifact events (disabled when MQTTBroker is empty)
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTTopic    string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honored if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           envInt("PORT", 8080),
		GenerateDir:    envStr("GENERATE_DIR", "assets/audios/generate"),
		NamingScheme:   envStr("NAMING_SCHEME", "legacy"),
		WAVEncoding:    envStr("WAV_ENCODING", "float32"),
		EmbedURL:       envStr("EMBED_URL", "https://www.bandlab.com/studio"),
		LogDevelopment: envBool("LOG_DEVELOPMENT", false),
		AllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),

		ReplicateAPIURL:   envStr("REPLICATE_API_URL", "https://api.replicate.com"),
		ReplicateAPIToken: envStr("REPLICATE_API_TOKEN", ""),
		PollInterval:      time.Duration(envInt("RIFFUSION_POLL_INTERVAL_MS", 1000)) * time.Millisecond,

		RiffusionModel:   envStr("RIFFUSION_MODEL", "riffusion/riffusion"),
		RiffusionVersion: envStr("RIFFUSION_VERSION", DefaultRiffusionVersion),
		Denoising:        envFloat("RIFFUSION_DENOISING", 0.75),
		Alpha:            envFloat("RIFFUSION_ALPHA", 0.5),
		InferenceSteps:   envInt("RIFFUSION_INFERENCE_STEPS", 50),
		SeedImageID:      envStr("RIFFUSION_SEED_IMAGE", "vibes"),

		MQTTBroker:   envStr("MQTT_BROKER", ""),
		MQTTClientID: envStr("MQTT_CLIENT_ID", "eightzeros"),
		MQTTUsername: envStr("MQTT_USERNAME", ""),
		MQTTPassword: envStr("MQTT_PASSWORD", ""),
		MQTTTopic:    envStr("MQTT_TOPIC", "eightzeros/artifacts"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

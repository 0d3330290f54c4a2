package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Провайдеры генерации
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderStub   = "stub"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"`  // Режим дебага: dev-логгер zap
	Provider  string `env:"AI_PROVIDER"` // gemini|openai|stub, по умолчанию gemini

	Gemini GeminiConfig
	OpenAI OpenAIConfig
	Image  ImageConfig

	// HTTP-сервер (cmd/server)
	BindAddr       string `env:"SERVER_BIND_ADDR"` // Адрес слушателя, напр. 127.0.0.1:8080
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES"` // Максимальный размер загружаемого файла
}

// GeminiConfig конфигурация Google Generative Language API.
type GeminiConfig struct {
	// Если ключ пуст, используются Application Default Credentials.
	APIKey   string `env:"GOOGLE_API_KEY"`
	Model    string `env:"GEMINI_MODEL"`
	Endpoint string `env:"GEMINI_ENDPOINT"`
}

// OpenAIConfig — ключ читает сам openai-go из OPENAI_API_KEY.
type OpenAIConfig struct {
	Model string `env:"OPENAI_MODEL"`
}

// ImageConfig ограничения для картинки сессии после пережатия.
type ImageConfig struct {
	MaxWidth int `env:"IMAGE_MAX_WIDTH"`
	MaxBytes int `env:"IMAGE_MAX_BYTES"`
	Quality  int `env:"IMAGE_QUALITY"` // 1-100
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		Provider:  ProviderGemini,
		Gemini: GeminiConfig{
			Model:    "gemini-2.0-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o",
		},
		Image: ImageConfig{
			MaxWidth: 1280,
			MaxBytes: 1 * 1024 * 1024,
			Quality:  80,
		},
		BindAddr:       "127.0.0.1:8080",
		UploadMaxBytes: 10 * 1024 * 1024,
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и os.Args.
func NewConfig(args []string) *Config {
	_ = godotenv.Load()

	cfg, err := Load(args)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load стартует с дефолтов, затем перекрывает окружением и флагами.
func Load(args []string) (*Config, error) {
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("visiontalk", flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "сервис генерации: gemini|openai|stub")
	fs.StringVar(&cfg.Gemini.APIKey, "google-api-key", cfg.Gemini.APIKey, "API ключ Gemini (перекрывает ENV GOOGLE_API_KEY)")
	fs.StringVar(&cfg.Gemini.Model, "gemini-model", cfg.Gemini.Model, "модель Gemini, напр. gemini-2.0-flash")
	fs.StringVar(&cfg.Gemini.Endpoint, "gemini-endpoint", cfg.Gemini.Endpoint, "базовый URL Generative Language API")
	fs.StringVar(&cfg.OpenAI.Model, "openai-model", cfg.OpenAI.Model, "модель OpenAI, напр. gpt-4o")
	fs.IntVar(&cfg.Image.MaxWidth, "image-max-width", cfg.Image.MaxWidth, "максимальная ширина картинки после пережатия")
	fs.IntVar(&cfg.Image.MaxBytes, "image-max-bytes", cfg.Image.MaxBytes, "максимальный размер JPEG после пережатия, байт")
	fs.IntVar(&cfg.Image.Quality, "image-quality", cfg.Image.Quality, "качество JPEG 1-100")
	fs.StringVar(&cfg.BindAddr, "bind-addr", cfg.BindAddr, "адрес HTTP-сервера (напр. 127.0.0.1:8080)")
	fs.Int64Var(&cfg.UploadMaxBytes, "upload-max-bytes", cfg.UploadMaxBytes, "максимальный размер загружаемого файла, байт")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch cfg.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderStub:
	case "":
		cfg.Provider = ProviderGemini
	default:
		return nil, fmt.Errorf("unknown provider %q: expected gemini|openai|stub", cfg.Provider)
	}
	if cfg.Image.Quality < 1 || cfg.Image.Quality > 100 {
		return nil, fmt.Errorf("image quality out of range: %d", cfg.Image.Quality)
	}

	return cfg, nil
}

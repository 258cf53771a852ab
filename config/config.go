package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string // Токен бота; пусто — бот не запускается
	HTTPAddr      string // Адрес HTTP API
	ModelPath     string // Путь к ONNX-модели классификатора
	OrtDLL        string // Путь к библиотеке ONNX Runtime
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8000"),
		ModelPath:     getEnv("MODEL_PATH", "models/densenet121-res224-all.onnx"),
		OrtDLL:        os.Getenv("ORT_DLL"),
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

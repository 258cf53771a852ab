package main

import (
	"log"

	"diagno-bot/config"
	telegram "diagno-bot/internal/api"
	"diagno-bot/internal/container"
	"diagno-bot/internal/httpserver"
	"diagno-bot/internal/infrastructure/classifier"
	"diagno-bot/internal/infrastructure/storage"
	"diagno-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Модель загружается один раз при старте: без классификатора сервис не
	// может обслужить ни одного запроса, поэтому ошибка здесь фатальна.
	model, err := classifier.NewORTClassifier(classifier.Config{
		ModelPath: cfg.ModelPath,
		OrtDLL:    cfg.OrtDLL,
	})
	if err != nil {
		log.Fatalf("Failed to load classifier: %v", err)
	}
	defer model.Close()

	processor := vision.NewXRayProcessor()

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, model, processor, processor)

	// Бот запускается только при наличии токена
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		go func() {
			log.Println("Bot is running...")
			if err := bot.Run(); err != nil {
				log.Fatalf("Bot error: %v", err)
			}
		}()
	}

	srv := httpserver.New(appContainer)
	if err := srv.Start(cfg.HTTPAddr); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

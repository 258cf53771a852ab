package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"diagno-bot/internal/container"
	"diagno-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для анализа рентгенограмм грудной клетки.

📸 Отправьте мне снимок, и я определю вероятные патологии, покажу зону внимания модели и объясню, почему она так решила.

📋 Команды:
/analyze — начать анализ снимка
/help — справка
/cancel — отменить текущую операцию

⚠️ Результат не является диагнозом и требует оценки врача.`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте рентгенограмму грудной клетки (фронтальная проекция)
2️⃣ Бот прогонит снимок через классификатор
3️⃣ Вы получите отчёт: находки, зону локализации и тепловую карту

💡 Рекомендации:
• Снимок должен быть без обрезки лёгочных полей
• Избегайте фотографий экрана под углом

📋 Команды:
/analyze — начать анализ
/cancel — отменить операцию`

	msgAwaitingXray    = "📸 Отправьте рентгенограмму для анализа."
	msgCancelled       = "❌ Операция отменена. Отправьте /analyze для нового анализа."
	msgSendXray        = "📸 Пожалуйста, отправьте рентгенограмму грудной клетки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую снимок..."
	msgProcessingError = "⚠️ Не удалось проанализировать снимок. Попробуйте другое изображение."
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendXray)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.container.UserService.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "analyze", "check":
		b.container.UserService.BeginAnalysis(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingXray)

	case "cancel":
		b.container.UserService.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto прогоняет присланный снимок через сервис диагностики
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.container.UserService.SetState(ctx, msg.From.ID, msg.Chat.ID, entity.StateProcessing)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.container.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		return
	}

	report, err := b.container.DiagnosisService.AnalyzeImage(ctx, imageData)
	if err != nil {
		log.Printf("Error analyzing image: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.container.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		return
	}

	b.sendMessage(msg.Chat.ID, formatReport(report))

	if len(report.Heatmap) > 0 {
		photoMsg := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{
			Name:  "heatmap.jpg",
			Bytes: report.Heatmap,
		})
		photoMsg.Caption = "🔥 Зона внимания модели (Grad-CAM)"
		if _, err := b.api.Send(photoMsg); err != nil {
			log.Printf("Error sending heatmap: %v", err)
		}
	}

	b.container.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
}

// formatReport собирает текст отчёта для чата
func formatReport(report *entity.PredictionReport) string {
	var sb strings.Builder

	if report.Prediction == "Normal" {
		sb.WriteString("✅ Патологий не обнаружено.\n\n")
	} else {
		fmt.Fprintf(&sb, "🩻 Основная находка: %s (%.1f%%)\n", report.Prediction, report.Confidence*100)
		fmt.Fprintf(&sb, "📍 Зона: %s\n\n", report.Region)
		if len(report.Findings) > 1 {
			sb.WriteString("Другие находки:\n")
			for _, f := range report.Findings[1:] {
				fmt.Fprintf(&sb, "• %s — %.1f%% (%s)\n", f.Label, f.Score*100, f.Severity)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(report.Narrative)

	if report.HeatmapNote != "" {
		fmt.Fprintf(&sb, "\n\nℹ️ %s", report.HeatmapNote)
	}

	return sb.String()
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

package notify

import (
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/sales_analyzer/apperrors"
)

// maxSizePhoto is the largest PNG still sent as a photo; bigger files and
// non-images go out as documents.
const maxSizePhoto = 150000

// maxMessageLength is the Telegram limit for a text message.
const maxMessageLength = 4096

// ReportFileName is the name of the report attachment.
const ReportFileName = "sales_report.txt"

// Sender delivers one Telegram request. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	api    Sender
	chatID int64
	logger *slog.Logger
}

// NewTelegram authorizes the bot token and returns a notifier for chatID.
func NewTelegram(token string, chatID int64, logger *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperrors.IOWrap(err, "connect to telegram")
	}
	return NewWithSender(api, chatID, logger), nil
}

func NewWithSender(api Sender, chatID int64, logger *slog.Logger) *Telegram {
	if logger == nil {
		logger = slog.Default()
	}
	return &Telegram{api: api, chatID: chatID, logger: logger}
}

// Deliver sends the report text followed by every artifact. It stops at the
// first failed request.
func (t *Telegram) Deliver(report string, artifacts []string) error {
	if text := "<pre>\n" + html.EscapeString(report) + "\n</pre>"; len(text) <= maxMessageLength {
		msg := tgbotapi.NewMessage(t.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := t.api.Send(msg); err != nil {
			return apperrors.IOWrap(err, "send report message")
		}
	}

	doc := tgbotapi.NewDocumentUpload(t.chatID, tgbotapi.FileBytes{Name: ReportFileName, Bytes: []byte(report)})
	if _, err := t.api.Send(doc); err != nil {
		return apperrors.IOWrap(err, "send report file")
	}

	for _, path := range artifacts {
		if err := t.sendFile(path); err != nil {
			return err
		}
	}
	t.logger.Info("report delivered to telegram", slog.Int64("chat_id", t.chatID), slog.Int("files", len(artifacts)+1))
	return nil
}

func (t *Telegram) sendFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.IOWrap(err, "read "+path)
	}
	name := filepath.Base(path)
	file := tgbotapi.FileBytes{Name: name, Bytes: data}

	var msg tgbotapi.Chattable
	if strings.EqualFold(filepath.Ext(name), ".png") && len(data) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(t.chatID, file)
		photo.Caption = caption(name)
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(t.chatID, file)
		doc.Caption = caption(name)
		msg = doc
	}

	if _, err := t.api.Send(msg); err != nil {
		return apperrors.IOWrap(err, "send "+name)
	}
	return nil
}

// caption turns monthly_sales_trend.png into "monthly sales trend".
func caption(name string) string {
	return strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "_", " ")
}

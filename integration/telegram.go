package integration

import (
	"log/slog"
	"sync"
	"time"
)

// TelegramNotifier имитация Telegram-бота уведомлений: сообщения
// не уходят в сеть, а пишутся в лог и копятся в памяти для показа
// в панели интеграций.
type TelegramNotifier struct {
	mu       sync.Mutex
	chatID   string
	messages []NotifyMessage
}

// NotifyMessage отправленное (имитированное) уведомление
type NotifyMessage struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// NewTelegramNotifier создает имитацию бота
func NewTelegramNotifier(chatID string) *TelegramNotifier {
	return &TelegramNotifier{chatID: chatID}
}

// Notify регистрирует уведомление
func (n *TelegramNotifier) Notify(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, NotifyMessage{Text: text, SentAt: time.Now()})
	// В памяти держим только хвост
	if len(n.messages) > 100 {
		n.messages = n.messages[len(n.messages)-100:]
	}

	slog.Info("Telegram notification (mock)",
		"chat_id", n.chatID,
		"text", text,
	)
}

// Recent последние уведомления, самые новые в конце
func (n *TelegramNotifier) Recent(limit int) []NotifyMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	if limit <= 0 || limit > len(n.messages) {
		limit = len(n.messages)
	}
	tail := n.messages[len(n.messages)-limit:]
	out := make([]NotifyMessage, len(tail))
	copy(out, tail)
	return out
}

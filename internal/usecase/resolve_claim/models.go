package resolve_claim

import "time"

// Действия клиента по офферу
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// Исходы погашения оффера
const (
	// StatusAccepted оффер принят, бронь создана
	StatusAccepted = "accepted"
	// StatusDeclined клиент отказался, запись вернулась в ожидание
	StatusDeclined = "declined"
	// StatusExpired оффер истек или слот уже занят
	StatusExpired = "expired"
	// StatusInvalid токен неизвестен или уже погашен
	StatusInvalid = "invalid"
)

// Config параметры обработки откликов
type Config struct {
	// Cooldown окно подавления после отказа: в течение этого времени
	// запись не рассматривается как кандидат на новые офферы
	Cooldown time.Duration
}

// Request модель запроса на погашение оффера
type Request struct {
	Token   string // Токен из ссылки-приглашения
	Action  string // accept | decline
	Channel string // Канал отклика для журнала: link | operator
}

// Response модель результата погашения
type Response struct {
	Status    string // accepted | declined | expired | invalid
	BookingID *int64 // ID созданной брони (только для accepted)
}

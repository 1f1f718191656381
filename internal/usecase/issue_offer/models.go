package issue_offer

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// Config параметры выдачи офферов
type Config struct {
	// OfferTTL время жизни оффера с момента выдачи
	OfferTTL time.Duration
	// ClaimBaseURL базовый URL ссылки-приглашения, токен добавляется в путь
	ClaimBaseURL string
}

// Request модель запроса на выдачу оффера
type Request struct {
	SalonID    int64               // Салон (тенант) вызывающего
	EntryID    int64               // Запись листа ожидания
	SlotDate   time.Time           // Дата освободившегося слота
	SlotStart  types.TimeString    // Начало слота (например, "10:00")
	SlotEnd    types.TimeString    // Конец слота
	EmployeeID *int64              // Мастер слота (опционально)
	Trigger    domain.OfferTrigger // Причина выдачи: cancellation | manual_notify
}

// Response модель ответа с выданным оффером
type Response struct {
	OfferToken string    // Токен для погашения оффера
	Notified   bool      // Доставлено ли уведомление (false не откатывает выдачу)
	ExpiresAt  time.Time // Дедлайн оффера
}

package issue_offer

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/notifier"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetByID(ctx context.Context, salonID, id int64) (*domain.WaitlistEntry, error)
	TransitionToNotified(ctx context.Context, salonID, id int64, offer *domain.Offer) error
}

// CalendarClient интерфейс клиента календарного сервиса
type CalendarClient interface {
	CheckSlotAvailable(ctx context.Context, salonID, serviceID int64, slot *domain.Slot) (bool, error)
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	SendOffer(ctx context.Context, contact notifier.Contact, payload notifier.OfferPayload) (bool, error)
}

// AuditRepository интерфейс журнала действий
type AuditRepository interface {
	Append(ctx context.Context, record *auditRepo.Record) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package resolve_claim

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/calendar"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.WaitlistEntry, error)
	ReleaseOffer(ctx context.Context, id int64, token string, newStatus domain.EntryStatus, cooldownUntil *time.Time) error
	MarkBooked(ctx context.Context, id int64, token string, bookingID int64) error
}

// CalendarClient интерфейс клиента календарного сервиса
type CalendarClient interface {
	ConvertOfferToBooking(ctx context.Context, salonID, serviceID int64, slot *domain.Slot, customer calendar.BookingCustomer, idempotencyKey string) (int64, error)
	ReleaseSlot(ctx context.Context, salonID, serviceID int64, slot *domain.Slot) error
}

// AuditRepository интерфейс журнала действий
type AuditRepository interface {
	Append(ctx context.Context, record *auditRepo.Record) error
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

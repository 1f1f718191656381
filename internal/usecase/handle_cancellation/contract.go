package handle_cancellation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	FindCandidates(ctx context.Context, filter domain.CandidateFilter, now time.Time) ([]*domain.WaitlistEntry, error)
}

// CalendarClient интерфейс клиента календарного сервиса
type CalendarClient interface {
	FindMatchingFreeSlot(ctx context.Context, salonID, serviceID int64, date time.Time, employeeID *int64) (*domain.Slot, error)
}

// OfferIssuer интерфейс выдачи оффера по конкретной записи
type OfferIssuer interface {
	Execute(ctx context.Context, req *issue_offer.Request) (*issue_offer.Response, error)
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

package sweep_lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	ListExpiredOffers(ctx context.Context, now time.Time, limit int) ([]*domain.WaitlistEntry, error)
	ReleaseOffer(ctx context.Context, id int64, token string, newStatus domain.EntryStatus, cooldownUntil *time.Time) error
	ListElapsedCooldowns(ctx context.Context, now time.Time, limit int) ([]*domain.WaitlistEntry, error)
	ClearCooldown(ctx context.Context, id int64, now time.Time) error
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

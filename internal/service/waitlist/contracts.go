package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, salonID, id int64) (*domain.WaitlistEntry, error)
	ListBySalon(ctx context.Context, filter domain.EntriesFilter) ([]*domain.WaitlistEntry, error)
	Withdraw(ctx context.Context, salonID, id int64) error
}

// AuditRepository интерфейс журнала действий
type AuditRepository interface {
	Append(ctx context.Context, record *auditRepo.Record) error
	ListByEntry(ctx context.Context, salonID, entryID int64) ([]*auditRepo.Record, error)
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

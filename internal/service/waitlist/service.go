package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

// realTimeProvider реальный провайдер времени для production
type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}

// Service сервис для работы с записями листа ожидания:
// постановка, просмотр, отзыв. Жизненный цикл офферов - в usecase-слое.
type Service struct {
	waitlistRepo WaitlistRepository
	auditRepo    AuditRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	auditRepo AuditRepository,
	logger Logger,
) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		auditRepo:    auditRepo,
		timeProvider: &realTimeProvider{},
		logger:       logger,
	}
}

// Create ставит клиента в лист ожидания (статус waiting).
// Требуется минимум один канал связи - иначе оффер будет некому доставить.
func (s *Service) Create(ctx context.Context, req *models.CreateEntryRequest) (*models.EntryResponse, error) {
	s.logger.Info("Create: salon=%d, service=%d, date=%s",
		req.SalonID, req.ServiceID, req.PreferredDate.Format(domain.DateFormat))

	if err := s.validateCreate(req); err != nil {
		s.logger.Warn("Create: validation failed for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	entry := req.ToDomainEntry()
	created, err := s.waitlistRepo.Create(ctx, entry)
	if err != nil {
		s.logger.Error("Create: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created entry id=%d for salon=%d", created.ID, created.SalonID)
	return models.FromDomainEntry(created), nil
}

// GetByID получает запись вместе с журналом действий.
// Записи чужого салона не видны.
func (s *Service) GetByID(ctx context.Context, salonID, id int64) (*models.EntryDetailResponse, error) {
	s.logger.Info("GetByID: fetching entry id=%d for salon=%d", id, salonID)

	entry, err := s.waitlistRepo.GetByID(ctx, salonID, id)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			s.logger.Warn("GetByID: entry id=%d not found in salon=%d", id, salonID)
			return nil, ErrEntryNotFound
		}
		s.logger.Error("GetByID: repository error for entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	records, err := s.auditRepo.ListByEntry(ctx, salonID, id)
	if err != nil {
		s.logger.Error("GetByID: audit repository error for entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - audit repository error: %v", ErrInternal, err)
	}

	return &models.EntryDetailResponse{
		Entry: *models.FromDomainEntry(entry),
		Audit: models.FromAuditRecords(records),
	}, nil
}

// List получает записи салона с опциональной фильтрацией по статусу и дате
func (s *Service) List(ctx context.Context, req *models.ListEntriesRequest) (*models.EntryListResponse, error) {
	s.logger.Info("List: fetching entries for salon=%d, status=%v", req.SalonID, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid status=%v for salon=%d", req.Status, req.SalonID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	entries, err := s.waitlistRepo.ListBySalon(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d entries for salon=%d", len(entries), req.SalonID)
	return models.FromDomainEntryList(entries), nil
}

// Withdraw отзывает запись из листа ожидания (терминальный переход
// waiting|notified -> cancelled). Живой оффер при этом гасится.
func (s *Service) Withdraw(ctx context.Context, salonID, id int64, channel string) error {
	s.logger.Info("Withdraw: withdrawing entry id=%d for salon=%d", id, salonID)

	entry, err := s.waitlistRepo.GetByID(ctx, salonID, id)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			s.logger.Warn("Withdraw: entry id=%d not found in salon=%d", id, salonID)
			return ErrEntryNotFound
		}
		s.logger.Error("Withdraw: repository error for entry id=%d: %v", id, err)
		return fmt.Errorf("%w: Withdraw - repository error: %v", ErrInternal, err)
	}

	if !entry.CanBeWithdrawn() {
		s.logger.Warn("Withdraw: entry id=%d cannot be withdrawn, status=%s", id, entry.Status)
		return ErrCannotWithdraw
	}

	if err := s.waitlistRepo.Withdraw(ctx, salonID, id); err != nil {
		if errors.Is(err, waitlistRepo.ErrStaleEntry) {
			// Конкурентный вызов успел перевести запись в терминальный статус
			s.logger.Warn("Withdraw: entry id=%d changed concurrently", id)
			return ErrCannotWithdraw
		}
		s.logger.Error("Withdraw: repository error for entry id=%d: %v", id, err)
		return fmt.Errorf("%w: Withdraw - repository error: %v", ErrInternal, err)
	}

	record := &auditRepo.Record{
		SalonID: salonID,
		EntryID: id,
		Action:  auditRepo.ActionWithdrawn,
		Channel: channel,
		Outcome: "cancelled",
	}
	if err := s.auditRepo.Append(ctx, record); err != nil {
		// Журнал не должен блокировать сам отзыв
		s.logger.Error("Withdraw: failed to append audit record for entry id=%d: %v", id, err)
	}

	s.logger.Info("Withdraw: successfully withdrew entry id=%d", id)
	return nil
}

// validateCreate валидирует запрос на постановку в лист ожидания
func (s *Service) validateCreate(req *models.CreateEntryRequest) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is too long", ErrInvalidInput)
	}
	if req.PreferredDate.IsZero() {
		return fmt.Errorf("%w: preferredDate is required", ErrInvalidInput)
	}

	entry := req.ToDomainEntry()
	if !entry.HasContactChannel() {
		return ErrNoContactChannel
	}

	// Окно предпочтений: обе границы валидны и начало раньше конца
	if req.PreferredTimeStart != nil {
		if err := req.PreferredTimeStart.Validate(); err != nil {
			return fmt.Errorf("%w: invalid preferredTimeStart: %v", ErrInvalidInput, err)
		}
	}
	if req.PreferredTimeEnd != nil {
		if err := req.PreferredTimeEnd.Validate(); err != nil {
			return fmt.Errorf("%w: invalid preferredTimeEnd: %v", ErrInvalidInput, err)
		}
	}
	if req.PreferredTimeStart != nil && req.PreferredTimeEnd != nil &&
		!req.PreferredTimeStart.IsBefore(*req.PreferredTimeEnd) {
		return fmt.Errorf("%w: preferredTimeEnd must be after preferredTimeStart", ErrInvalidInput)
	}

	// Дата в прошлом означает, что слот уже не может освободиться
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.PreferredDate.Before(today) {
		return fmt.Errorf("%w: preferredDate is in the past", ErrInvalidInput)
	}

	return nil
}

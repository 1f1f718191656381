package resolve_claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/calendar"
)

// UseCase use case погашения оффера по токену из ссылки-приглашения.
//
// Идемпотентность строится на физическом стирании токена: любое погашение
// выполняется условным UPDATE "токен все еще на месте". Из двух конкурентных
// откликов по одному токену пройдет ровно один, второй получит invalid.
// Конвертация в бронь идет до стирания токена с idempotencyKey = токен,
// поэтому ретрай после сбоя не создаст вторую бронь.
type UseCase struct {
	waitlistRepo   WaitlistRepository
	calendarClient CalendarClient
	auditRepo      AuditRepository
	timeProvider   TimeProvider
	cfg            Config
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	waitlistRepo WaitlistRepository,
	calendarClient CalendarClient,
	auditRepo AuditRepository,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = domain.DefaultCooldownMinutes * time.Minute
	}
	return &UseCase{
		waitlistRepo:   waitlistRepo,
		calendarClient: calendarClient,
		auditRepo:      auditRepo,
		timeProvider:   &RealTimeProvider{},
		cfg:            cfg,
		logger:         logger,
	}
}

// Execute обрабатывает отклик клиента на оффер.
// Неизвестный или уже погашенный токен - это не ошибка, а исход invalid:
// ссылку могли открыть повторно или после истечения срока.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveClaim: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	entry, err := uc.waitlistRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrTokenNotFound) {
			uc.logger.Info("ResolveClaim: unknown or consumed token")
			return &Response{Status: StatusInvalid}, nil
		}
		uc.logger.Error("ResolveClaim: failed to load entry by token: %v", err)
		return nil, fmt.Errorf("%w: failed to load entry: %v", ErrInternal, err)
	}

	if entry.Status != domain.StatusNotified || entry.Offer == nil {
		// Токен нашелся, но запись уже не в notified - гонка с другой развязкой
		uc.logger.Warn("ResolveClaim: entry=%d holds token but is in status=%s", entry.ID, entry.Status)
		return &Response{Status: StatusInvalid}, nil
	}

	offer := entry.Offer

	// Ленивое истечение: дедлайн проверяется в момент отклика,
	// не дожидаясь фонового обхода
	if offer.IsExpired(now) {
		uc.logger.Info("ResolveClaim: offer for entry=%d expired at %s", entry.ID, offer.ExpiresAt)
		uc.releaseExpired(ctx, entry)
		uc.appendAudit(ctx, entry, req.Channel, "expired", "offer deadline passed")
		return &Response{Status: StatusExpired}, nil
	}

	switch req.Action {
	case ActionAccept:
		return uc.accept(ctx, entry, req.Channel)
	default:
		return uc.decline(ctx, entry, req.Channel, now)
	}
}

// accept конвертирует оффер в бронь и переводит запись в booked
func (uc *UseCase) accept(ctx context.Context, entry *domain.WaitlistEntry, channel string) (*Response, error) {
	offer := entry.Offer
	slot := &domain.Slot{
		Date:       offer.SlotDate,
		StartTime:  offer.SlotStart,
		EndTime:    offer.SlotEnd,
		EmployeeID: offer.EmployeeID,
	}
	customer := calendar.BookingCustomer{
		CustomerID: entry.CustomerID,
		Name:       entry.CustomerName,
		Email:      entry.CustomerEmail,
		Phone:      entry.CustomerPhone,
	}

	// Конвертация идет до стирания токена: idempotencyKey = токен защищает
	// от дубля брони, а при сбое транспорта оффер остается действующим
	bookingID, err := uc.calendarClient.ConvertOfferToBooking(ctx, entry.SalonID, entry.ServiceID, slot, customer, offer.Token)
	if err != nil {
		if calendar.IsBusinessError(err) {
			// Слот перехвачен вне листа ожидания - оффер больше не исполним
			uc.logger.Warn("ResolveClaim: slot already taken for entry=%d: %v", entry.ID, err)
			uc.releaseExpired(ctx, entry)
			uc.appendAudit(ctx, entry, channel, "expired", "slot taken before acceptance")
			return &Response{Status: StatusExpired}, nil
		}
		uc.logger.Error("ResolveClaim: calendar conversion failed for entry=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	if err := uc.waitlistRepo.MarkBooked(ctx, entry.ID, offer.Token, bookingID); err != nil {
		if errors.Is(err, waitlistRepo.ErrStaleEntry) {
			// Токен погасили конкурентно уже после создания брони.
			// Бронь существует, idempotencyKey не даст ей задвоиться.
			uc.logger.Error("ResolveClaim: entry=%d resolved concurrently, booking=%d kept by idempotency key",
				entry.ID, bookingID)
			return &Response{Status: StatusInvalid}, nil
		}
		uc.logger.Error("ResolveClaim: failed to mark entry=%d booked: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: failed to mark entry booked: %v", ErrInternal, err)
	}

	uc.logger.Info("ResolveClaim: entry=%d accepted offer, booking=%d", entry.ID, bookingID)
	uc.appendAudit(ctx, entry, channel, "accepted", fmt.Sprintf("booking=%d", bookingID))

	return &Response{Status: StatusAccepted, BookingID: &bookingID}, nil
}

// decline возвращает запись в ожидание с окном подавления
func (uc *UseCase) decline(ctx context.Context, entry *domain.WaitlistEntry, channel string, now time.Time) (*Response, error) {
	offer := entry.Offer
	cooldownUntil := now.Add(uc.cfg.Cooldown)

	err := uc.waitlistRepo.ReleaseOffer(ctx, entry.ID, offer.Token, domain.StatusWaiting, &cooldownUntil)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrStaleEntry) {
			uc.logger.Info("ResolveClaim: entry=%d already resolved concurrently", entry.ID)
			return &Response{Status: StatusInvalid}, nil
		}
		uc.logger.Error("ResolveClaim: failed to release offer for entry=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: failed to release offer: %v", ErrInternal, err)
	}

	// Возвращаем слот календарю, чтобы координатор отмены мог предложить
	// его следующему кандидату. Сбой не критичен: слот и так свободен.
	slot := &domain.Slot{
		Date:       offer.SlotDate,
		StartTime:  offer.SlotStart,
		EndTime:    offer.SlotEnd,
		EmployeeID: offer.EmployeeID,
	}
	if err := uc.calendarClient.ReleaseSlot(ctx, entry.SalonID, entry.ServiceID, slot); err != nil {
		uc.logger.Warn("ResolveClaim: failed to release slot for entry=%d: %v", entry.ID, err)
	}

	uc.logger.Info("ResolveClaim: entry=%d declined offer, cooldown until %s", entry.ID, cooldownUntil)
	uc.appendAudit(ctx, entry, channel, "declined", fmt.Sprintf("cooldown_until=%s", cooldownUntil.Format(time.RFC3339)))

	return &Response{Status: StatusDeclined}, nil
}

// releaseExpired возвращает запись в исходный статус после истечения оффера.
// Гонка с конкурентным погашением не ошибка: кто-то уже развязал запись.
func (uc *UseCase) releaseExpired(ctx context.Context, entry *domain.WaitlistEntry) {
	err := uc.waitlistRepo.ReleaseOffer(ctx, entry.ID, entry.Offer.Token, entry.Offer.FromStatus, nil)
	if err != nil && !errors.Is(err, waitlistRepo.ErrStaleEntry) {
		uc.logger.Error("ResolveClaim: failed to release expired offer for entry=%d: %v", entry.ID, err)
	}
}

// appendAudit фиксирует исход погашения в журнале (best effort)
func (uc *UseCase) appendAudit(ctx context.Context, entry *domain.WaitlistEntry, channel, outcome, details string) {
	record := &auditRepo.Record{
		SalonID: entry.SalonID,
		EntryID: entry.ID,
		Action:  auditRepo.ActionClaimResolved,
		Channel: channel,
		Outcome: outcome,
		Details: &details,
	}
	if err := uc.auditRepo.Append(ctx, record); err != nil {
		uc.logger.Error("ResolveClaim: failed to append audit record for entry=%d: %v", entry.ID, err)
	}
}

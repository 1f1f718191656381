package issue_offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/notifier"
)

// UseCase use case выдачи оффера по записи листа ожидания.
//
// Порядок шагов фиксирован: доступность слота перепроверяется в календаре
// до транзакции (данные записи могли устареть с момента постановки),
// сам переход waiting -> notified выполняется в сериализуемой транзакции
// с блокировкой строки. Из двух конкурентных выдач по одной записи
// пройдет ровно одна, вторая получит ErrOfferPending.
type UseCase struct {
	waitlistRepo   WaitlistRepository
	calendarClient CalendarClient
	notifierClient NotifierClient
	auditRepo      AuditRepository
	txManager      TransactionManager
	timeProvider   TimeProvider
	cfg            Config
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	waitlistRepo WaitlistRepository,
	calendarClient CalendarClient,
	notifierClient NotifierClient,
	auditRepo AuditRepository,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.OfferTTL <= 0 {
		cfg.OfferTTL = domain.DefaultOfferTTLMinutes * time.Minute
	}
	return &UseCase{
		waitlistRepo:   waitlistRepo,
		calendarClient: calendarClient,
		notifierClient: notifierClient,
		auditRepo:      auditRepo,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		cfg:            cfg,
		logger:         logger,
	}
}

// Execute выдает оффер: переводит запись waiting -> notified, отправляет
// клиенту уведомление со ссылкой-токеном и фиксирует действие в журнале.
// Сбой доставки уведомления не откатывает выдачу - оффер остается
// действительным и может быть передан клиенту другим каналом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("IssueOffer: salon=%d, entry=%d, slot=%s %s-%s, trigger=%s",
		req.SalonID, req.EntryID, req.SlotDate.Format(domain.DateFormat),
		req.SlotStart, req.SlotEnd, req.Trigger)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("IssueOffer: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	slot := &domain.Slot{
		Date:       req.SlotDate,
		StartTime:  req.SlotStart,
		EndTime:    req.SlotEnd,
		EmployeeID: req.EmployeeID,
	}

	// 2. Быстрая проверка записи до похода в календарь
	entry, err := uc.loadWaitingEntry(ctx, req, now)
	if err != nil {
		return nil, err
	}

	// 3. Перепроверяем доступность слота в календаре: доступность на момент
	// постановки в лист ожидания принципиально устаревшая
	available, err := uc.calendarClient.CheckSlotAvailable(ctx, req.SalonID, entry.ServiceID, slot)
	if err != nil {
		uc.logger.Error("IssueOffer: calendar check failed for entry=%d: %v", req.EntryID, err)
		return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	if !available {
		uc.logger.Warn("IssueOffer: slot %s %s-%s no longer free (entry=%d)",
			req.SlotDate.Format(domain.DateFormat), req.SlotStart, req.SlotEnd, req.EntryID)
		return nil, ErrSlotUnavailable
	}

	// 4. Генерируем токен оффера
	token, err := newOfferToken()
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		Token:      token,
		SlotDate:   req.SlotDate,
		SlotStart:  req.SlotStart,
		SlotEnd:    req.SlotEnd,
		EmployeeID: req.EmployeeID,
		NotifiedAt: now,
		ExpiresAt:  now.Add(uc.cfg.OfferTTL),
		Trigger:    req.Trigger,
		FromStatus: entry.Status,
	}

	// 5. Переход waiting -> notified в сериализуемой транзакции.
	// Повторное чтение под FOR UPDATE закрывает гонку между шагом 2 и
	// конкурентной выдачей оффера по той же записи.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.loadWaitingEntry(txCtx, req, now)
		if err != nil {
			return err
		}

		if err := uc.waitlistRepo.TransitionToNotified(txCtx, req.SalonID, current.ID, offer); err != nil {
			if errors.Is(err, waitlistRepo.ErrStaleEntry) {
				return ErrOfferPending
			}
			return fmt.Errorf("%w: failed to transition entry: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("IssueOffer: entry=%d notified, expires_at=%s",
		req.EntryID, offer.ExpiresAt.Format(time.RFC3339))

	// 6. Отправляем уведомление. Сбой доставки не откатывает состояние:
	// запись остается notified, наружу уходит notified=false.
	delivered := uc.sendNotification(ctx, entry, offer)

	// 7. Фиксируем выдачу в журнале (best effort)
	uc.appendAudit(ctx, req, offer, delivered)

	return &Response{
		OfferToken: token,
		Notified:   delivered,
		ExpiresAt:  offer.ExpiresAt,
	}, nil
}

// loadWaitingEntry загружает запись и проверяет, что по ней можно выдать оффер
func (uc *UseCase) loadWaitingEntry(ctx context.Context, req *Request, now time.Time) (*domain.WaitlistEntry, error) {
	entry, err := uc.waitlistRepo.GetByID(ctx, req.SalonID, req.EntryID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			uc.logger.Warn("IssueOffer: entry=%d not found in salon=%d", req.EntryID, req.SalonID)
			return nil, ErrEntryNotFound
		}
		uc.logger.Error("IssueOffer: failed to load entry=%d: %v", req.EntryID, err)
		return nil, fmt.Errorf("%w: failed to load entry: %v", ErrInternal, err)
	}

	if entry.Status == domain.StatusNotified {
		uc.logger.Warn("IssueOffer: entry=%d already has a pending offer", req.EntryID)
		return nil, ErrOfferPending
	}
	if entry.Status != domain.StatusWaiting {
		uc.logger.Warn("IssueOffer: entry=%d is in status=%s", req.EntryID, entry.Status)
		return nil, ErrEntryNotWaiting
	}
	if entry.InCooldown(now) {
		uc.logger.Warn("IssueOffer: entry=%d is in cooldown until %s", req.EntryID, entry.CooldownUntil)
		return nil, ErrEntryInCooldown
	}
	if !entry.AcceptsSlot(req.SlotStart, req.SlotEnd) || !entry.MatchesEmployee(req.EmployeeID) {
		uc.logger.Warn("IssueOffer: slot does not match preferences of entry=%d", req.EntryID)
		return nil, ErrIncompatibleSlot
	}

	return entry, nil
}

// sendNotification отправляет клиенту ссылку-приглашение
func (uc *UseCase) sendNotification(ctx context.Context, entry *domain.WaitlistEntry, offer *domain.Offer) bool {
	contact := notifier.Contact{
		Name:  entry.CustomerName,
		Email: entry.CustomerEmail,
		Phone: entry.CustomerPhone,
	}
	payload := notifier.OfferPayload{
		SlotDate:  offer.SlotDate.Format(domain.DateFormat),
		SlotStart: offer.SlotStart,
		SlotEnd:   offer.SlotEnd,
		ClaimLink: fmt.Sprintf("%s/%s", uc.cfg.ClaimBaseURL, offer.Token),
		ExpiresAt: offer.ExpiresAt.Format(time.RFC3339),
	}

	delivered, err := uc.notifierClient.SendOffer(ctx, contact, payload)
	if err != nil {
		if errors.Is(err, notifier.ErrDeliveryFailed) {
			uc.logger.Warn("IssueOffer: delivery failed for entry=%d, offer stays claimable: %v", entry.ID, err)
		} else {
			uc.logger.Error("IssueOffer: notifier error for entry=%d: %v", entry.ID, err)
		}
		return false
	}
	return delivered
}

// appendAudit фиксирует выдачу оффера в журнале
func (uc *UseCase) appendAudit(ctx context.Context, req *Request, offer *domain.Offer, delivered bool) {
	details := fmt.Sprintf("slot=%s %s-%s delivered=%t",
		offer.SlotDate.Format(domain.DateFormat), offer.SlotStart, offer.SlotEnd, delivered)

	record := &auditRepo.Record{
		SalonID: req.SalonID,
		EntryID: req.EntryID,
		Action:  auditRepo.ActionOfferIssued,
		Channel: channelForTrigger(req.Trigger),
		Outcome: "issued",
		Details: &details,
	}
	if err := uc.auditRepo.Append(ctx, record); err != nil {
		uc.logger.Error("IssueOffer: failed to append audit record for entry=%d: %v", req.EntryID, err)
	}
}

// channelForTrigger маппит причину выдачи в канал инициатора для журнала
func channelForTrigger(trigger domain.OfferTrigger) string {
	if trigger == domain.TriggerManualNotify {
		return "operator"
	}
	return "system"
}

// IsConflict возвращает true для исходов "запись уже занята другим оффером
// или не в waiting" - координатор отмены переходит к следующему кандидату
func IsConflict(err error) bool {
	return errors.Is(err, ErrOfferPending) ||
		errors.Is(err, ErrEntryNotWaiting) ||
		errors.Is(err, ErrEntryInCooldown) ||
		errors.Is(err, ErrIncompatibleSlot)
}

package sweep_lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
)

// UseCase use case планового обхода жизненного цикла.
//
// Два прохода: возврат записей с истекшими офферами в исходный статус
// и снятие отработавших окон подавления. Обход страхует ленивую проверку
// дедлайна в момент отклика: запись, по которой клиент так и не перешел
// по ссылке, без обхода зависла бы в notified навсегда.
//
// Сбой по отдельной записи не прерывает проход: остальная партия
// обрабатывается, запись будет подобрана следующим запуском.
type UseCase struct {
	waitlistRepo WaitlistRepository
	auditRepo    AuditRepository
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(waitlistRepo WaitlistRepository, auditRepo AuditRepository, cfg Config, logger Logger) *UseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultSweepBatchSize
	}
	return &UseCase{
		waitlistRepo: waitlistRepo,
		auditRepo:    auditRepo,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// Execute выполняет один проход обхода и возвращает счетчики
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()

	expired, err := uc.expireOffers(ctx, now)
	if err != nil {
		return nil, err
	}

	cleared, err := uc.clearCooldowns(ctx, now)
	if err != nil {
		return nil, err
	}

	if expired > 0 || cleared > 0 {
		uc.logger.Info("SweepLifecycle: offers_expired=%d, cooldowns_cleared=%d", expired, cleared)
	}

	return &Response{OffersExpired: expired, CooldownsCleared: cleared}, nil
}

// expireOffers возвращает записи с истекшими офферами в исходный статус
func (uc *UseCase) expireOffers(ctx context.Context, now time.Time) (int, error) {
	entries, err := uc.waitlistRepo.ListExpiredOffers(ctx, now, uc.cfg.BatchSize)
	if err != nil {
		uc.logger.Error("SweepLifecycle: failed to list expired offers: %v", err)
		return 0, fmt.Errorf("%w: failed to list expired offers: %v", ErrInternal, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.Offer == nil {
			// Выборка по offer_expires_at не должна отдавать записи без оффера
			uc.logger.Error("SweepLifecycle: entry=%d listed as expired but has no offer", entry.ID)
			continue
		}

		err := uc.waitlistRepo.ReleaseOffer(ctx, entry.ID, entry.Offer.Token, entry.Offer.FromStatus, nil)
		if err != nil {
			if errors.Is(err, waitlistRepo.ErrStaleEntry) {
				// Клиент успел откликнуться между выборкой и возвратом
				continue
			}
			uc.logger.Error("SweepLifecycle: failed to expire offer for entry=%d: %v", entry.ID, err)
			continue
		}

		uc.appendAudit(ctx, entry)
		count++
	}

	return count, nil
}

// clearCooldowns снимает отработавшие окна подавления
func (uc *UseCase) clearCooldowns(ctx context.Context, now time.Time) (int, error) {
	entries, err := uc.waitlistRepo.ListElapsedCooldowns(ctx, now, uc.cfg.BatchSize)
	if err != nil {
		uc.logger.Error("SweepLifecycle: failed to list elapsed cooldowns: %v", err)
		return 0, fmt.Errorf("%w: failed to list elapsed cooldowns: %v", ErrInternal, err)
	}

	count := 0
	for _, entry := range entries {
		if err := uc.waitlistRepo.ClearCooldown(ctx, entry.ID, now); err != nil {
			uc.logger.Error("SweepLifecycle: failed to clear cooldown for entry=%d: %v", entry.ID, err)
			continue
		}
		count++
	}

	return count, nil
}

// appendAudit фиксирует истечение оффера в журнале (best effort)
func (uc *UseCase) appendAudit(ctx context.Context, entry *domain.WaitlistEntry) {
	details := fmt.Sprintf("expired_at=%s returned_to=%s",
		entry.Offer.ExpiresAt.Format(time.RFC3339), entry.Offer.FromStatus)

	record := &auditRepo.Record{
		SalonID: entry.SalonID,
		EntryID: entry.ID,
		Action:  auditRepo.ActionClaimResolved,
		Channel: "system",
		Outcome: "expired",
		Details: &details,
	}
	if err := uc.auditRepo.Append(ctx, record); err != nil {
		uc.logger.Error("SweepLifecycle: failed to append audit record for entry=%d: %v", entry.ID, err)
	}
}

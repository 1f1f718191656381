package handle_cancellation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/calendar"
	"github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
)

// UseCase use case обработки отмены брони.
//
// На один освободившийся слот выдается не больше одного оффера:
// кандидаты перебираются в порядке постановки (FIFO), после первой
// успешной выдачи перебор останавливается. Проигрыш гонки по отдельному
// кандидату (conflict, slot_unavailable) не прерывает перебор - очередь
// переходит к следующему. Наружу ошибка не поднимается: вызывающий
// получает счетчики для логирования.
type UseCase struct {
	waitlistRepo   WaitlistRepository
	calendarClient CalendarClient
	offerIssuer    OfferIssuer
	timeProvider   TimeProvider
	cfg            Config
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	waitlistRepo WaitlistRepository,
	calendarClient CalendarClient,
	offerIssuer OfferIssuer,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = domain.DefaultSweepBatchSize
	}
	return &UseCase{
		waitlistRepo:   waitlistRepo,
		calendarClient: calendarClient,
		offerIssuer:    offerIssuer,
		timeProvider:   &RealTimeProvider{},
		cfg:            cfg,
		logger:         logger,
	}
}

// Execute обрабатывает событие отмены: находит освободившийся слот,
// подбирает кандидатов из листа ожидания и выдает оффер первому подходящему
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("HandleCancellation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("HandleCancellation: salon=%d, service=%d, date=%s",
		req.SalonID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// Слот берем из календаря, а не из события: к моменту обработки
	// освободившееся окно могли уже частично занять
	slot, err := uc.calendarClient.FindMatchingFreeSlot(ctx, req.SalonID, req.ServiceID, req.Date, req.EmployeeID)
	if err != nil {
		if errors.Is(err, calendar.ErrNoMatchingSlot) {
			uc.logger.Info("HandleCancellation: no free slot left for salon=%d, service=%d", req.SalonID, req.ServiceID)
			return &Response{}, nil
		}
		uc.logger.Error("HandleCancellation: failed to resolve freed slot: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	now := uc.timeProvider.Now()
	filter := domain.CandidateFilter{
		SalonID:    req.SalonID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		EmployeeID: slot.EmployeeID,
		Limit:      uc.cfg.CandidateLimit,
	}

	candidates, err := uc.waitlistRepo.FindCandidates(ctx, filter, now)
	if err != nil {
		uc.logger.Error("HandleCancellation: failed to find candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to find candidates: %v", ErrInternal, err)
	}

	resp := &Response{}
	for _, candidate := range candidates {
		// Несовместимое окно предпочтений исключает кандидата из рассмотрения
		if !candidate.AcceptsSlot(slot.StartTime, slot.EndTime) {
			continue
		}

		resp.CandidatesConsidered++

		issueReq := &issue_offer.Request{
			SalonID:    req.SalonID,
			EntryID:    candidate.ID,
			SlotDate:   slot.Date,
			SlotStart:  slot.StartTime,
			SlotEnd:    slot.EndTime,
			EmployeeID: slot.EmployeeID,
			Trigger:    domain.TriggerCancellation,
		}

		result, err := uc.offerIssuer.Execute(ctx, issueReq)
		if err != nil {
			// Проигрыш гонки по кандидату или перехват слота - пробуем следующего
			if issue_offer.IsConflict(err) || errors.Is(err, issue_offer.ErrSlotUnavailable) {
				uc.logger.Warn("HandleCancellation: candidate entry=%d skipped: %v", candidate.ID, err)
				continue
			}
			uc.logger.Error("HandleCancellation: issue failed for entry=%d: %v", candidate.ID, err)
			continue
		}

		uc.logger.Info("HandleCancellation: offer issued to entry=%d, notified=%t", candidate.ID, result.Notified)
		resp.OffersIssued++
		break // один слот - один оффер
	}

	return resp, nil
}

package notify_entry

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
	issueOffer "github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidEntryID     = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlot        = "некорректный формат слота, ожидается YYYY-MM-DD и HH:MM"
	msgNotFound           = "запись листа ожидания не найдена"
	msgOfferPending       = "по записи уже есть действующее предложение"
	msgNotWaiting         = "запись не в статусе ожидания"
	msgInCooldown         = "запись во временном окне подавления после отказа"
	msgSlotUnavailable    = "слот уже занят"
	msgIncompatibleSlot   = "слот не попадает в окно предпочтений клиента"
	msgCalendarDown       = "календарный сервис недоступен, попробуйте позже"
)

type Handler struct {
	useCase IssueOfferUseCase
	logger  Logger
}

func NewHandler(useCase IssueOfferUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/salons/{salonId}/waitlist/{entryId}/notify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	var req NotifyEntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(salonID, entryID)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Failed to parse slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, issueOffer.ErrEntryNotFound):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Entry not found: entry_id=%d, salon_id=%d",
				entryID, salonID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, issueOffer.ErrOfferPending):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Offer pending: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgOfferPending)

		case errors.Is(err, issueOffer.ErrEntryNotWaiting):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Not waiting: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgNotWaiting)

		case errors.Is(err, issueOffer.ErrEntryInCooldown):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - In cooldown: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgInCooldown)

		case errors.Is(err, issueOffer.ErrSlotUnavailable):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Slot unavailable: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, issueOffer.ErrIncompatibleSlot):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Incompatible slot: entry_id=%d", entryID)
			handlers.RespondBadRequest(w, msgIncompatibleSlot)

		case errors.Is(err, issueOffer.ErrInvalidInput):
			h.logger.Warn("POST /salons/{id}/waitlist/{entryId}/notify - Invalid input: entry_id=%d, error=%v",
				entryID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, issueOffer.ErrCalendarUnavailable):
			h.logger.Error("POST /salons/{id}/waitlist/{entryId}/notify - Calendar unavailable: entry_id=%d, error=%v",
				entryID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarDown)

		default:
			h.logger.Error("POST /salons/{id}/waitlist/{entryId}/notify - Failed to issue offer: entry_id=%d, error=%v",
				entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /salons/{id}/waitlist/{entryId}/notify - Offer issued: entry_id=%d, notified=%t",
		entryID, result.Notified)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

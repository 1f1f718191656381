package booking_cancelled

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
	handleCancellation "github.com/m04kA/SMC-WaitlistService/internal/usecase/handle_cancellation"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные события отмены"
	msgCalendarDown       = "календарный сервис недоступен, попробуйте позже"
)

type Handler struct {
	useCase HandleCancellationUseCase
	logger  Logger
}

func NewHandler(useCase HandleCancellationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/salons/{salonId}/cancellations
// Хук от букинг-сервиса: бронь отменена, слот освободился
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/cancellations - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var req BookingCancelledRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /salons/{id}/cancellations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(salonID)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/cancellations - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, handleCancellation.ErrInvalidInput):
			h.logger.Warn("POST /salons/{id}/cancellations - Invalid input: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, handleCancellation.ErrCalendarUnavailable):
			h.logger.Error("POST /salons/{id}/cancellations - Calendar unavailable: salon_id=%d, error=%v", salonID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarDown)

		default:
			h.logger.Error("POST /salons/{id}/cancellations - Failed to handle cancellation: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /salons/{id}/cancellations - Processed: salon_id=%d, offers_issued=%d, candidates=%d",
		salonID, result.OffersIssued, result.CandidatesConsidered)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

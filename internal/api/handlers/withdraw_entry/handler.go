package withdraw_entry

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
	waitlistService "github.com/m04kA/SMC-WaitlistService/internal/service/waitlist"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidEntryID = "некорректный ID записи"
	msgNotFound       = "запись листа ожидания не найдена"
	msgCannotWithdraw = "запись не может быть отозвана"

	// Отзыв доступен только через защищенный маршрут, канал фиксирован
	withdrawChannel = "operator"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/salons/{salonId}/waitlist/{entryId}/withdraw
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /salons/{id}/waitlist/{entryId}/withdraw - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /salons/{id}/waitlist/{entryId}/withdraw - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	err = h.service.Withdraw(r.Context(), salonID, entryID, withdrawChannel)
	if err != nil {
		switch {
		case errors.Is(err, waitlistService.ErrEntryNotFound):
			h.logger.Warn("PATCH /salons/{id}/waitlist/{entryId}/withdraw - Entry not found: entry_id=%d, salon_id=%d",
				entryID, salonID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlistService.ErrCannotWithdraw):
			h.logger.Warn("PATCH /salons/{id}/waitlist/{entryId}/withdraw - Cannot withdraw: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgCannotWithdraw)

		default:
			h.logger.Error("PATCH /salons/{id}/waitlist/{entryId}/withdraw - Failed to withdraw: entry_id=%d, error=%v",
				entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /salons/{id}/waitlist/{entryId}/withdraw - Entry withdrawn: entry_id=%d, salon_id=%d",
		entryID, salonID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

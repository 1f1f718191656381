package lifecycle_sweep

import (
	"net/http"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
)

// SweepResponse HTTP response model
type SweepResponse struct {
	ExpiredOffers         int `json:"expiredOffers"`
	CooldownReactivations int `json:"cooldownReactivations"`
}

type Handler struct {
	useCase SweepLifecycleUseCase
	logger  Logger
}

func NewHandler(useCase SweepLifecycleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/jobs/lifecycle-sweep
// Вызывается внешним планировщиком (cron), защищен служебным токеном
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /jobs/lifecycle-sweep - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /jobs/lifecycle-sweep - Completed: expired=%d, cooldowns=%d",
		result.OffersExpired, result.CooldownsCleared)
	handlers.RespondJSON(w, http.StatusOK, &SweepResponse{
		ExpiredOffers:         result.OffersExpired,
		CooldownReactivations: result.CooldownsCleared,
	})
}

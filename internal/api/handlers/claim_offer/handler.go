package claim_offer

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
	resolveClaim "github.com/m04kA/SMC-WaitlistService/internal/usecase/resolve_claim"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAction      = "некорректное действие, ожидается accept или decline"
	msgCalendarDown       = "календарный сервис недоступен, попробуйте позже"

	defaultChannel = "link"
)

type Handler struct {
	useCase ResolveClaimUseCase
	logger  Logger
}

func NewHandler(useCase ResolveClaimUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/claims/{offerToken}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["offerToken"]

	var req ClaimOfferRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /claims/{token} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Channel == "" {
		req.Channel = defaultChannel
	}

	h.resolve(w, r, &resolveClaim.Request{
		Token:   token,
		Action:  req.Action,
		Channel: req.Channel,
	})
}

// HandleDecline GET /api/v1/claims/{offerToken}/decline?channel=
// Отказ одним кликом из письма, без тела запроса
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["offerToken"]

	channel := r.URL.Query().Get("channel")
	if channel == "" {
		channel = defaultChannel
	}

	h.resolve(w, r, &resolveClaim.Request{
		Token:   token,
		Action:  resolveClaim.ActionDecline,
		Channel: channel,
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, useCaseReq *resolveClaim.Request) {
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, resolveClaim.ErrInvalidInput):
			h.logger.Warn("Claims - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAction)

		case errors.Is(err, resolveClaim.ErrCalendarUnavailable):
			h.logger.Error("Claims - Calendar unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarDown)

		default:
			h.logger.Error("Claims - Failed to resolve claim: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Исход - часть тела ответа, а не HTTP статуса: expired и invalid
	// для протокола погашения такие же штатные ответы, как accepted
	h.logger.Info("Claims - Resolved: action=%s, status=%s", useCaseReq.Action, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

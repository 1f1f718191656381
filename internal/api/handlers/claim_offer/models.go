package claim_offer

import (
	resolveClaim "github.com/m04kA/SMC-WaitlistService/internal/usecase/resolve_claim"
)

// ClaimOfferRequest HTTP request model
type ClaimOfferRequest struct {
	Action  string `json:"action"`            // accept | decline
	Channel string `json:"channel,omitempty"` // по умолчанию link
}

// ClaimOfferResponse HTTP response model
type ClaimOfferResponse struct {
	Status    string `json:"status"` // accepted | declined | expired | invalid
	BookingID *int64 `json:"bookingId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveClaim.Response) *ClaimOfferResponse {
	return &ClaimOfferResponse{
		Status:    resp.Status,
		BookingID: resp.BookingID,
	}
}

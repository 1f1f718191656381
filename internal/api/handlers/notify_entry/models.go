package notify_entry

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	issueOffer "github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// NotifyEntryRequest HTTP request model
type NotifyEntryRequest struct {
	SlotDate   string `json:"slotDate"`  // "2025-10-15"
	SlotStart  string `json:"slotStart"` // "10:00"
	SlotEnd    string `json:"slotEnd"`   // "10:30"
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

// NotifyEntryResponse HTTP response model
type NotifyEntryResponse struct {
	OfferToken string `json:"offerToken"`
	Notified   bool   `json:"notified"`
	ExpiresAt  string `json:"expiresAt"` // ISO 8601
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *NotifyEntryRequest) ToUseCaseRequest(salonID, entryID int64) (*issueOffer.Request, error) {
	slotDate, err := time.Parse(domain.DateFormat, r.SlotDate)
	if err != nil {
		return nil, err
	}

	slotStart, err := types.ParseTimeString(r.SlotStart)
	if err != nil {
		return nil, err
	}

	slotEnd, err := types.ParseTimeString(r.SlotEnd)
	if err != nil {
		return nil, err
	}

	return &issueOffer.Request{
		SalonID:    salonID,
		EntryID:    entryID,
		SlotDate:   slotDate,
		SlotStart:  slotStart,
		SlotEnd:    slotEnd,
		EmployeeID: r.EmployeeID,
		Trigger:    domain.TriggerManualNotify,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *issueOffer.Response) *NotifyEntryResponse {
	return &NotifyEntryResponse{
		OfferToken: resp.OfferToken,
		Notified:   resp.Notified,
		ExpiresAt:  resp.ExpiresAt.Format(time.RFC3339),
	}
}

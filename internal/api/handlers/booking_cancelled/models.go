package booking_cancelled

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	handleCancellation "github.com/m04kA/SMC-WaitlistService/internal/usecase/handle_cancellation"
)

// BookingCancelledRequest HTTP request model
type BookingCancelledRequest struct {
	ServiceID  int64  `json:"serviceId"`
	Date       string `json:"date"` // "2025-10-15"
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

// BookingCancelledResponse HTTP response model
type BookingCancelledResponse struct {
	OffersIssued         int `json:"offersIssued"`
	CandidatesConsidered int `json:"candidatesConsidered"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookingCancelledRequest) ToUseCaseRequest(salonID int64) (*handleCancellation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &handleCancellation.Request{
		SalonID:    salonID,
		ServiceID:  r.ServiceID,
		Date:       date,
		EmployeeID: r.EmployeeID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *handleCancellation.Response) *BookingCancelledResponse {
	return &BookingCancelledResponse{
		OffersIssued:         resp.OffersIssued,
		CandidatesConsidered: resp.CandidatesConsidered,
	}
}

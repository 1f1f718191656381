package create_entry

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// CreateEntryRequest HTTP request model
type CreateEntryRequest struct {
	CustomerID         *int64  `json:"customerId,omitempty"`
	CustomerName       string  `json:"customerName"`
	CustomerEmail      *string `json:"customerEmail,omitempty"`
	CustomerPhone      *string `json:"customerPhone,omitempty"`
	ServiceID          int64   `json:"serviceId"`
	EmployeeID         *int64  `json:"employeeId,omitempty"`
	PreferredDate      string  `json:"preferredDate"` // "2025-10-15"
	PreferredTimeStart *string `json:"preferredTimeStart,omitempty"`
	PreferredTimeEnd   *string `json:"preferredTimeEnd,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
// (с парсингом даты и окна предпочтений)
func (r *CreateEntryRequest) ToServiceRequest(salonID int64) (*models.CreateEntryRequest, error) {
	preferredDate, err := time.Parse(domain.DateFormat, r.PreferredDate)
	if err != nil {
		return nil, err
	}

	var timeStart, timeEnd *types.TimeString
	if r.PreferredTimeStart != nil {
		ts, err := types.ParseTimeString(*r.PreferredTimeStart)
		if err != nil {
			return nil, err
		}
		timeStart = &ts
	}
	if r.PreferredTimeEnd != nil {
		ts, err := types.ParseTimeString(*r.PreferredTimeEnd)
		if err != nil {
			return nil, err
		}
		timeEnd = &ts
	}

	return &models.CreateEntryRequest{
		SalonID:            salonID,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		CustomerPhone:      r.CustomerPhone,
		ServiceID:          r.ServiceID,
		EmployeeID:         r.EmployeeID,
		PreferredDate:      preferredDate,
		PreferredTimeStart: timeStart,
		PreferredTimeEnd:   timeEnd,
	}, nil
}

package calendar

import "github.com/m04kA/SMC-WaitlistService/pkg/types"

// FreeSlot свободный слот из календарного сервиса
type FreeSlot struct {
	Date       string           `json:"date"` // YYYY-MM-DD
	StartTime  types.TimeString `json:"startTime"`
	EndTime    types.TimeString `json:"endTime"`
	EmployeeID *int64           `json:"employeeId,omitempty"`
}

// BookingCustomer данные клиента для создания брони
type BookingCustomer struct {
	CustomerID *int64  `json:"customerId,omitempty"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// convertRequest запрос на конвертацию оффера в бронь
type convertRequest struct {
	SalonID    int64            `json:"salonId"`
	ServiceID  int64            `json:"serviceId"`
	EmployeeID *int64           `json:"employeeId,omitempty"`
	Date       string           `json:"date"`
	StartTime  types.TimeString `json:"startTime"`
	EndTime    types.TimeString `json:"endTime"`
	Customer   BookingCustomer  `json:"customer"`
	// IdempotencyKey защищает от повторного создания брони при ретраях
	IdempotencyKey string `json:"idempotencyKey"`
}

// convertResponse ответ календарного сервиса на конвертацию
type convertResponse struct {
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`
}

// checkSlotResponse ответ на проверку доступности слота
type checkSlotResponse struct {
	Available bool `json:"available"`
}

// ErrorResponse модель ошибки от календарного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

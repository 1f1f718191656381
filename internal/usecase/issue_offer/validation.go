package issue_offer

import (
	"fmt"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.EntryID <= 0 {
		return fmt.Errorf("%w: entryID must be positive", ErrInvalidInput)
	}

	if req.SlotDate.IsZero() {
		return fmt.Errorf("%w: slotDate is required", ErrInvalidInput)
	}

	if err := req.SlotStart.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotStart: %v", ErrInvalidInput, err)
	}

	if err := req.SlotEnd.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotEnd: %v", ErrInvalidInput, err)
	}

	if !req.SlotStart.IsBefore(req.SlotEnd) {
		return fmt.Errorf("%w: slotEnd must be after slotStart", ErrInvalidInput)
	}

	switch req.Trigger {
	case domain.TriggerCancellation, domain.TriggerManualNotify:
	default:
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidInput, req.Trigger)
	}

	return nil
}

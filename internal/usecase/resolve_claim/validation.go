package resolve_claim

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	switch req.Action {
	case ActionAccept, ActionDecline:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	if req.Channel == "" {
		return fmt.Errorf("%w: channel is required", ErrInvalidInput)
	}

	return nil
}
